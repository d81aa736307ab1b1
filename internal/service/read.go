package service

import (
	"context"

	"github.com/keshon/discord-ops/internal/apierr"
	"github.com/keshon/discord-ops/internal/format"
	"github.com/keshon/discord-ops/internal/model"
	"github.com/keshon/discord-ops/pkg/util"
	"go.uber.org/zap"
)

// ListGuilds reports every guild the bot belongs to that passes the guild
// allow-list. A guild whose details cannot be fetched is still listed.
func (s *Service) ListGuilds(ctx context.Context) (string, error) {
	const op = "fetching guilds"
	log := s.start(op)

	guilds, err := s.api.UserGuilds(ctx)
	if err != nil {
		return "", fail(log, err, op, "", "")
	}
	guilds = s.gate.FilterGuilds(guilds)

	entries := make([]format.GuildEntry, len(guilds))
	for i, g := range guilds {
		entries[i].Guild = g
	}
	err = util.Parallel(ctx, guilds, guildDetailWorkers, func(ctx context.Context, i int, g model.Guild) error {
		details, err := s.api.Guild(ctx, g.ID)
		if err != nil {
			log.Warn("Guild details unavailable", zap.String("guild_id", g.ID), zap.Error(err))
			return nil
		}
		entries[i].Details = &details
		return nil
	})
	if err != nil {
		return "", fail(log, err, op, "", "")
	}

	done(log, zap.Int("guild_count", len(entries)))
	return format.Guilds(entries), nil
}

// ListChannels reports the channels of a guild, filtered through the
// channel allow-list.
func (s *Service) ListChannels(ctx context.Context, guildID string) (string, error) {
	const op = "fetching channels"
	log := s.start(op, zap.String("guild_id", guildID))

	if err := checkID("guild", guildID); err != nil {
		return "", reject(log, err)
	}
	if !s.gate.GuildAllowed(guildID) {
		return "", reject(log, apierr.Denied("guild", guildID))
	}

	guild, err := s.api.Guild(ctx, guildID)
	if err != nil {
		return "", fail(log, err, op, "Guild", guildID)
	}
	channels, err := s.api.GuildChannels(ctx, guildID)
	if err != nil {
		return "", fail(log, err, op, "Guild", guildID)
	}
	channels = s.gate.FilterChannels(channels)

	name := guild.Name
	if name == "" {
		name = "Unknown Guild"
	}
	done(log, zap.Int("channel_count", len(channels)))
	return format.Channels(channels, name), nil
}

// ListMessages reports up to limit recent messages of a channel, oldest
// first. A zero limit selects DefaultChannelMessageLimit.
func (s *Service) ListMessages(ctx context.Context, channelID string, limit int) (string, error) {
	const op = "fetching messages"
	log := s.start(op, zap.String("channel_id", channelID), zap.Int("limit", limit))

	if err := checkID("channel", channelID); err != nil {
		return "", reject(log, err)
	}
	limit, lerr := checkLimit(limit, DefaultChannelMessageLimit)
	if lerr != nil {
		return "", reject(log, lerr)
	}
	if !s.gate.ChannelAllowed(channelID) {
		return "", reject(log, apierr.Denied("channel", channelID))
	}

	ch, err := s.api.Channel(ctx, channelID)
	if err != nil {
		return "", fail(log, err, op, "Channel", channelID)
	}
	if err := s.guildGate(log, ch.GuildID, channelID); err != nil {
		return "", err
	}

	messages, err := s.api.ChannelMessages(ctx, channelID, limit)
	if err != nil {
		return "", fail(log, err, op, "Channel", channelID)
	}

	done(log, zap.Int("message_count", len(messages)))
	return format.Messages(reversed(messages), ch.Name), nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (string, error) {
	const op = "fetching user"
	log := s.start(op, zap.String("user_id", userID))

	if err := checkID("user", userID); err != nil {
		return "", reject(log, err)
	}

	u, err := s.api.User(ctx, userID)
	if err != nil {
		return "", fail(log, err, op, "User", userID)
	}

	done(log)
	return format.User(u, userID), nil
}

// ReadDirectMessages reports the bot's DM history with a user, oldest
// first. A zero limit selects DefaultDMMessageLimit.
func (s *Service) ReadDirectMessages(ctx context.Context, userID string, limit int) (string, error) {
	const op = "reading direct messages"
	log := s.start(op, zap.String("user_id", userID), zap.Int("limit", limit))

	if err := checkID("user", userID); err != nil {
		return "", reject(log, err)
	}
	limit, lerr := checkLimit(limit, DefaultDMMessageLimit)
	if lerr != nil {
		return "", reject(log, lerr)
	}

	peer, err := s.api.User(ctx, userID)
	if err != nil {
		return "", fail(log, err, op, "User", userID)
	}
	dm, err := s.api.CreateDM(ctx, userID)
	if err != nil {
		return "", fail(log, err, "creating DM channel", "User", userID)
	}
	messages, err := s.api.ChannelMessages(ctx, dm.ID, limit)
	if err != nil {
		return "", fail(log, err, op, "", "")
	}

	thread := format.DMThread{ChannelID: dm.ID, Peer: peer, BotName: "Bot"}
	if me, err := s.api.CurrentUser(ctx); err != nil {
		log.Warn("Bot user unavailable", zap.Error(err))
	} else {
		thread.BotID = me.ID
		thread.BotName = format.DisplayName(&me)
	}

	done(log, zap.String("dm_channel_id", dm.ID), zap.Int("message_count", len(messages)))
	return format.DirectMessages(reversed(messages), thread), nil
}
