// Package discordtest provides an in-memory discord.API for tests.
package discordtest

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/keshon/discord-ops/internal/discord"
	"github.com/keshon/discord-ops/internal/model"
)

// Call records one mutating request made against the fake.
type Call struct {
	Method     string
	GuildID    string
	ChannelID  string
	UserID     string
	MessageID  string
	Content    string
	ReplyTo    string
	Reason     string
	Until      time.Time
	DeleteDays int
}

// Fake is a discord.API backed by maps. Fields may be populated directly
// before use; after that, access goes through the methods. Safe for
// concurrent use.
type Fake struct {
	mu sync.Mutex

	Me       model.User
	Guilds   []model.Guild
	Details  map[string]model.Guild
	Channels map[string]model.Channel
	// Messages are stored newest first, as the API returns them.
	Messages map[string][]model.Message
	Users    map[string]model.User
	Members  map[string]map[string]model.Member
	Roles    map[string][]model.Role
	// DMs maps a user ID to the ID of its DM channel.
	DMs map[string]string
	// Errors forces a method, by name, to fail with the given error.
	Errors map[string]error

	calls  []Call
	reads  []string
	nextID int
}

var _ discord.API = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{
		Details:  make(map[string]model.Guild),
		Channels: make(map[string]model.Channel),
		Messages: make(map[string][]model.Message),
		Users:    make(map[string]model.User),
		Members:  make(map[string]map[string]model.Member),
		Roles:    make(map[string][]model.Role),
		DMs:      make(map[string]string),
		Errors:   make(map[string]error),
		nextID:   1,
	}
}

// NotFound returns the error the client produces for an HTTP 404.
func NotFound(what string) error {
	return &discord.Error{Status: http.StatusNotFound, Message: "Unknown " + what}
}

// StatusError returns an upstream error with the given status.
func StatusError(status int) error {
	return &discord.Error{Status: status, Message: http.StatusText(status)}
}

// AddMember registers a member of guildID and its user record.
func (f *Fake) AddMember(guildID string, m model.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Members[guildID] == nil {
		f.Members[guildID] = make(map[string]model.Member)
	}
	f.Members[guildID][m.User.ID] = m
	f.Users[m.User.ID] = *m.User
}

// Calls returns the mutating requests made so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Reads returns the names of read methods called so far.
func (f *Fake) Reads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.reads...)
}

// enter records a read and returns any forced error. Caller holds f.mu.
func (f *Fake) enter(ctx context.Context, method string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.reads = append(f.reads, method)
	return f.Errors[method]
}

func (f *Fake) record(ctx context.Context, c Call) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.Errors[c.Method]; err != nil {
		return err
	}
	f.calls = append(f.calls, c)
	return nil
}

func (f *Fake) newID() string {
	f.nextID++
	return fmt.Sprintf("9%018d", f.nextID)
}

func (f *Fake) CurrentUser(ctx context.Context) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "CurrentUser"); err != nil {
		return model.User{}, err
	}
	return f.Me, nil
}

func (f *Fake) UserGuilds(ctx context.Context) ([]model.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "UserGuilds"); err != nil {
		return nil, err
	}
	return append([]model.Guild(nil), f.Guilds...), nil
}

func (f *Fake) Guild(ctx context.Context, guildID string) (model.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "Guild"); err != nil {
		return model.Guild{}, err
	}
	g, ok := f.Details[guildID]
	if !ok {
		return model.Guild{}, NotFound("Guild")
	}
	return g, nil
}

func (f *Fake) GuildChannels(ctx context.Context, guildID string) ([]model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GuildChannels"); err != nil {
		return nil, err
	}
	if _, ok := f.Details[guildID]; !ok {
		return nil, NotFound("Guild")
	}
	var out []model.Channel
	for _, ch := range f.Channels {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	slices.SortFunc(out, func(a, b model.Channel) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (f *Fake) Channel(ctx context.Context, channelID string) (model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "Channel"); err != nil {
		return model.Channel{}, err
	}
	ch, ok := f.Channels[channelID]
	if !ok {
		return model.Channel{}, NotFound("Channel")
	}
	return ch, nil
}

func (f *Fake) ChannelMessages(ctx context.Context, channelID string, limit int) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "ChannelMessages"); err != nil {
		return nil, err
	}
	msgs := f.Messages[channelID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return append([]model.Message(nil), msgs...), nil
}

func (f *Fake) ChannelMessage(ctx context.Context, channelID, messageID string) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "ChannelMessage"); err != nil {
		return model.Message{}, err
	}
	for _, m := range f.Messages[channelID] {
		if m.ID == messageID {
			return m, nil
		}
	}
	return model.Message{}, NotFound("Message")
}

func (f *Fake) User(ctx context.Context, userID string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "User"); err != nil {
		return model.User{}, err
	}
	u, ok := f.Users[userID]
	if !ok {
		return model.User{}, NotFound("User")
	}
	return u, nil
}

func (f *Fake) GuildMember(ctx context.Context, guildID, userID string) (model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GuildMember"); err != nil {
		return model.Member{}, err
	}
	m, ok := f.Members[guildID][userID]
	if !ok {
		return model.Member{}, NotFound("Member")
	}
	return m, nil
}

func (f *Fake) GuildRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(ctx, "GuildRoles"); err != nil {
		return nil, err
	}
	return append([]model.Role(nil), f.Roles[guildID]...), nil
}

func (f *Fake) SendMessage(ctx context.Context, channelID, content, replyTo string) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, Call{Method: "SendMessage", ChannelID: channelID, Content: content, ReplyTo: replyTo}); err != nil {
		return model.Message{}, err
	}
	me := f.Me
	m := model.Message{ID: f.newID(), ChannelID: channelID, Content: content, Author: &me, Timestamp: time.Now().UTC()}
	f.Messages[channelID] = append([]model.Message{m}, f.Messages[channelID]...)
	return m, nil
}

func (f *Fake) EditMessage(ctx context.Context, channelID, messageID, content string) (model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, Call{Method: "EditMessage", ChannelID: channelID, MessageID: messageID, Content: content}); err != nil {
		return model.Message{}, err
	}
	for i, m := range f.Messages[channelID] {
		if m.ID == messageID {
			f.Messages[channelID][i].Content = content
			return f.Messages[channelID][i], nil
		}
	}
	return model.Message{}, NotFound("Message")
}

func (f *Fake) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, Call{Method: "DeleteMessage", ChannelID: channelID, MessageID: messageID}); err != nil {
		return err
	}
	msgs := f.Messages[channelID]
	for i, m := range msgs {
		if m.ID == messageID {
			f.Messages[channelID] = append(msgs[:i:i], msgs[i+1:]...)
			return nil
		}
	}
	return NotFound("Message")
}

func (f *Fake) CreateDM(ctx context.Context, userID string) (model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(ctx, Call{Method: "CreateDM", UserID: userID}); err != nil {
		return model.Channel{}, err
	}
	if _, ok := f.Users[userID]; !ok {
		return model.Channel{}, NotFound("User")
	}
	id, ok := f.DMs[userID]
	if !ok {
		id = f.newID()
		f.DMs[userID] = id
	}
	return model.Channel{ID: id, Type: 1}, nil
}

func (f *Fake) TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(ctx, Call{Method: "TimeoutMember", GuildID: guildID, UserID: userID, Until: until, Reason: reason})
}

func (f *Fake) RemoveTimeout(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(ctx, Call{Method: "RemoveTimeout", GuildID: guildID, UserID: userID, Reason: reason})
}

func (f *Fake) KickMember(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(ctx, Call{Method: "KickMember", GuildID: guildID, UserID: userID, Reason: reason})
}

func (f *Fake) BanMember(ctx context.Context, guildID, userID, reason string, deleteDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(ctx, Call{Method: "BanMember", GuildID: guildID, UserID: userID, Reason: reason, DeleteDays: deleteDays})
}
