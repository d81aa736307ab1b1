// Package discord is the REST adapter between the operations service and
// the Discord API. Every outbound call draws from a shared request budget
// and carries the caller's context; discordgo's own retry loop is off.
package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/internal/model"
	"github.com/keshon/discord-ops/pkg/ratelimit"
)

// guildPageSize is the largest page the current-user guilds endpoint returns.
const guildPageSize = 200

// API is the set of Discord operations the service depends on.
type API interface {
	CurrentUser(ctx context.Context) (model.User, error)
	UserGuilds(ctx context.Context) ([]model.Guild, error)
	Guild(ctx context.Context, guildID string) (model.Guild, error)
	GuildChannels(ctx context.Context, guildID string) ([]model.Channel, error)
	Channel(ctx context.Context, channelID string) (model.Channel, error)
	// ChannelMessages returns up to limit messages, newest first.
	ChannelMessages(ctx context.Context, channelID string, limit int) ([]model.Message, error)
	ChannelMessage(ctx context.Context, channelID, messageID string) (model.Message, error)
	User(ctx context.Context, userID string) (model.User, error)
	GuildMember(ctx context.Context, guildID, userID string) (model.Member, error)
	GuildRoles(ctx context.Context, guildID string) ([]model.Role, error)

	SendMessage(ctx context.Context, channelID, content, replyTo string) (model.Message, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) (model.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	CreateDM(ctx context.Context, userID string) (model.Channel, error)

	TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	RemoveTimeout(ctx context.Context, guildID, userID, reason string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error
	BanMember(ctx context.Context, guildID, userID, reason string, deleteDays int) error
}

// Client implements API over a discordgo REST session. Safe for concurrent use.
type Client struct {
	session *discordgo.Session
	budget  *ratelimit.Budget
}

var _ API = (*Client)(nil)

// New opens a REST-only session for a bot token. The gateway is never
// connected.
func New(token string, budget *ratelimit.Budget, httpClient *http.Client) (*Client, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if httpClient != nil {
		s.Client = httpClient
	}
	return NewWithSession(s, budget), nil
}

// NewWithSession wraps an existing session, disabling its internal retries.
func NewWithSession(s *discordgo.Session, budget *ratelimit.Budget) *Client {
	s.ShouldRetryOnRateLimit = false
	s.MaxRestRetries = 0
	if budget == nil {
		budget = ratelimit.NewBudget(ratelimit.DefaultRequestsPerSecond, ratelimit.DefaultBurst)
	}
	return &Client{session: s, budget: budget}
}

// acquire takes one token from the budget and returns the request options
// every call is made with.
func (c *Client) acquire(ctx context.Context, extra ...discordgo.RequestOption) ([]discordgo.RequestOption, error) {
	if err := c.budget.Wait(ctx); err != nil {
		return nil, wrap(err)
	}
	return append([]discordgo.RequestOption{discordgo.WithContext(ctx)}, extra...), nil
}

func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	return c.User(ctx, "@me")
}

func (c *Client) UserGuilds(ctx context.Context) ([]model.Guild, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	guilds, err := c.session.UserGuilds(guildPageSize, "", "", true, opts...)
	if err != nil {
		return nil, wrap(err)
	}
	return convertAll(guilds, toUserGuild)
}

func (c *Client) Guild(ctx context.Context, guildID string) (model.Guild, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Guild{}, err
	}
	g, err := c.session.GuildWithCounts(guildID, opts...)
	if err != nil {
		return model.Guild{}, wrap(err)
	}
	return toGuild(g)
}

func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]model.Channel, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	channels, err := c.session.GuildChannels(guildID, opts...)
	if err != nil {
		return nil, wrap(err)
	}
	return convertAll(channels, toChannel)
}

func (c *Client) Channel(ctx context.Context, channelID string) (model.Channel, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Channel{}, err
	}
	ch, err := c.session.Channel(channelID, opts...)
	if err != nil {
		return model.Channel{}, wrap(err)
	}
	return toChannel(ch)
}

func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]model.Message, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := c.session.ChannelMessages(channelID, limit, "", "", "", opts...)
	if err != nil {
		return nil, wrap(err)
	}
	return convertAll(messages, toMessage)
}

func (c *Client) ChannelMessage(ctx context.Context, channelID, messageID string) (model.Message, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Message{}, err
	}
	m, err := c.session.ChannelMessage(channelID, messageID, opts...)
	if err != nil {
		return model.Message{}, wrap(err)
	}
	return toMessage(m)
}

func (c *Client) User(ctx context.Context, userID string) (model.User, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.User{}, err
	}
	u, err := c.session.User(userID, opts...)
	if err != nil {
		return model.User{}, wrap(err)
	}
	return toUser(u)
}

func (c *Client) GuildMember(ctx context.Context, guildID, userID string) (model.Member, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Member{}, err
	}
	m, err := c.session.GuildMember(guildID, userID, opts...)
	if err != nil {
		return model.Member{}, wrap(err)
	}
	return toMember(m)
}

func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]model.Role, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := c.session.GuildRoles(guildID, opts...)
	if err != nil {
		return nil, wrap(err)
	}
	return convertAll(roles, toRole)
}

func (c *Client) SendMessage(ctx context.Context, channelID, content, replyTo string) (model.Message, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Message{}, err
	}
	send := &discordgo.MessageSend{Content: content}
	if replyTo != "" {
		send.Reference = &discordgo.MessageReference{MessageID: replyTo, ChannelID: channelID}
	}
	m, err := c.session.ChannelMessageSendComplex(channelID, send, opts...)
	if err != nil {
		return model.Message{}, wrap(err)
	}
	return toMessage(m)
}

func (c *Client) EditMessage(ctx context.Context, channelID, messageID, content string) (model.Message, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Message{}, err
	}
	m, err := c.session.ChannelMessageEdit(channelID, messageID, content, opts...)
	if err != nil {
		return model.Message{}, wrap(err)
	}
	return toMessage(m)
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	opts, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	return wrap(c.session.ChannelMessageDelete(channelID, messageID, opts...))
}

func (c *Client) CreateDM(ctx context.Context, userID string) (model.Channel, error) {
	opts, err := c.acquire(ctx)
	if err != nil {
		return model.Channel{}, err
	}
	ch, err := c.session.UserChannelCreate(userID, opts...)
	if err != nil {
		return model.Channel{}, wrap(err)
	}
	return toChannel(ch)
}

func (c *Client) TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	opts, err := c.acquire(ctx, auditReason(reason)...)
	if err != nil {
		return err
	}
	until = until.UTC()
	return wrap(c.session.GuildMemberTimeout(guildID, userID, &until, opts...))
}

func (c *Client) RemoveTimeout(ctx context.Context, guildID, userID, reason string) error {
	opts, err := c.acquire(ctx, auditReason(reason)...)
	if err != nil {
		return err
	}
	return wrap(c.session.GuildMemberTimeout(guildID, userID, nil, opts...))
}

func (c *Client) KickMember(ctx context.Context, guildID, userID, reason string) error {
	opts, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	return wrap(c.session.GuildMemberDeleteWithReason(guildID, userID, reason, opts...))
}

func (c *Client) BanMember(ctx context.Context, guildID, userID, reason string, deleteDays int) error {
	opts, err := c.acquire(ctx)
	if err != nil {
		return err
	}
	return wrap(c.session.GuildBanCreateWithReason(guildID, userID, reason, deleteDays, opts...))
}

func auditReason(reason string) []discordgo.RequestOption {
	if reason == "" {
		return nil
	}
	return []discordgo.RequestOption{discordgo.WithAuditLogReason(reason)}
}
