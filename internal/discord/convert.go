package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/internal/model"
)

var errMissingID = errors.New("discord: record has no id")

func toGuild(g *discordgo.Guild) (model.Guild, error) {
	if g == nil || g.ID == "" {
		return model.Guild{}, errMissingID
	}
	return model.Guild{
		ID:                     g.ID,
		Name:                   g.Name,
		OwnerID:                g.OwnerID,
		Owner:                  g.Owner,
		ApproximateMemberCount: g.ApproximateMemberCount,
		Description:            g.Description,
		Features:               features(g.Features),
		Permissions:            g.Permissions,
	}, nil
}

func toUserGuild(g *discordgo.UserGuild) (model.Guild, error) {
	if g == nil || g.ID == "" {
		return model.Guild{}, errMissingID
	}
	return model.Guild{
		ID:                     g.ID,
		Name:                   g.Name,
		Owner:                  g.Owner,
		ApproximateMemberCount: g.ApproximateMemberCount,
		Features:               features(g.Features),
		Permissions:            g.Permissions,
	}, nil
}

func features(in []discordgo.GuildFeature) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, f := range in {
		out[i] = string(f)
	}
	return out
}

func toChannel(c *discordgo.Channel) (model.Channel, error) {
	if c == nil || c.ID == "" {
		return model.Channel{}, errMissingID
	}
	return model.Channel{
		ID:       c.ID,
		GuildID:  c.GuildID,
		Name:     c.Name,
		Type:     int(c.Type),
		Topic:    c.Topic,
		Position: c.Position,
		ParentID: c.ParentID,
		NSFW:     c.NSFW,
	}, nil
}

func toUser(u *discordgo.User) (model.User, error) {
	if u == nil || u.ID == "" {
		return model.User{}, errMissingID
	}
	return model.User{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		GlobalName:    u.GlobalName,
		Bot:           u.Bot,
		System:        u.System,
		Avatar:        u.Avatar,
		Banner:        u.Banner,
		AccentColor:   u.AccentColor,
		PublicFlags:   int(u.PublicFlags),
	}, nil
}

// toMessage keeps messages whose author is missing; the formatter labels
// them as unknown.
func toMessage(m *discordgo.Message) (model.Message, error) {
	if m == nil || m.ID == "" {
		return model.Message{}, errMissingID
	}
	out := model.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Embeds:    len(m.Embeds),
		Reactions: len(m.Reactions),
	}
	if author, err := toUser(m.Author); err == nil {
		out.Author = &author
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		out.Attachments = append(out.Attachments, model.Attachment{ID: a.ID, Filename: a.Filename})
	}
	return out, nil
}

func toMember(m *discordgo.Member) (model.Member, error) {
	if m == nil {
		return model.Member{}, errMissingID
	}
	u, err := toUser(m.User)
	if err != nil {
		return model.Member{}, err
	}
	return model.Member{User: &u, Roles: append([]string(nil), m.Roles...)}, nil
}

func toRole(r *discordgo.Role) (model.Role, error) {
	if r == nil || r.ID == "" {
		return model.Role{}, errMissingID
	}
	return model.Role{
		ID:          r.ID,
		Name:        r.Name,
		Position:    r.Position,
		Permissions: r.Permissions,
	}, nil
}

// convertAll applies fn to every element and stops at the first failure.
func convertAll[S any, T any](in []S, fn func(S) (T, error)) ([]T, error) {
	out := make([]T, 0, len(in))
	for _, v := range in {
		t, err := fn(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
