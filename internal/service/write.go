package service

import (
	"context"
	"fmt"

	"github.com/keshon/discord-ops/internal/apierr"
	"github.com/keshon/discord-ops/internal/format"
	"github.com/keshon/discord-ops/internal/model"
	"go.uber.org/zap"
)

// channel looks up a target channel after checking it against both allow-lists.
func (s *Service) channel(ctx context.Context, log *zap.Logger, op, channelID string) (model.Channel, error) {
	if !s.gate.ChannelAllowed(channelID) {
		return model.Channel{}, reject(log, apierr.Denied("channel", channelID))
	}
	ch, err := s.api.Channel(ctx, channelID)
	if err != nil {
		return model.Channel{}, fail(log, err, op, "Channel", channelID)
	}
	if err := s.guildGate(log, ch.GuildID, channelID); err != nil {
		return model.Channel{}, err
	}
	return ch, nil
}

func channelField(ch model.Channel) format.Field {
	return format.Field{Key: "Channel", Value: fmt.Sprintf("#%s (`%s`)", ch.Name, ch.ID)}
}

func sentAt(m model.Message) string {
	if m.Timestamp.IsZero() {
		return ""
	}
	return format.Timestamp(m.Timestamp)
}

// SendMessage posts content to a channel, optionally as a reply.
func (s *Service) SendMessage(ctx context.Context, channelID, content, replyTo string) (string, error) {
	const op = "sending message"
	log := s.start(op, zap.String("channel_id", channelID), zap.Int("content_length", len(content)))

	if err := checkID("channel", channelID); err != nil {
		return "", reject(log, err)
	}
	if replyTo != "" {
		if err := checkID("message", replyTo); err != nil {
			return "", reject(log, err)
		}
	}
	if err := checkContent(content); err != nil {
		return "", reject(log, err)
	}

	ch, err := s.channel(ctx, log, op, channelID)
	if err != nil {
		return "", err
	}

	m, err := s.api.SendMessage(ctx, channelID, content, replyTo)
	if err != nil {
		return "", fail(log, err, op, "Channel", channelID)
	}

	done(log, zap.String("message_id", m.ID), zap.String("reply_to", replyTo))
	return format.Success("Message sent",
		format.Field{Key: "Message ID", Value: format.ID(m.ID)},
		channelField(ch),
		format.Field{Key: "Content", Value: content},
		format.Field{Key: "Reply To", Value: idOrEmpty(replyTo)},
		format.Field{Key: "Sent At", Value: sentAt(m)},
	), nil
}

// SendDirectMessage opens (or reuses) the DM channel with a user and posts
// content to it.
func (s *Service) SendDirectMessage(ctx context.Context, userID, content string) (string, error) {
	const op = "sending direct message"
	log := s.start(op, zap.String("user_id", userID), zap.Int("content_length", len(content)))

	if err := checkID("user", userID); err != nil {
		return "", reject(log, err)
	}
	if err := checkContent(content); err != nil {
		return "", reject(log, err)
	}

	u, err := s.api.User(ctx, userID)
	if err != nil {
		return "", fail(log, err, op, "User", userID)
	}
	if u.Bot {
		log.Warn("Sending a direct message to a bot account")
	}

	dm, err := s.api.CreateDM(ctx, userID)
	if err != nil {
		return "", fail(log, err, "creating DM channel", "User", userID)
	}
	m, err := s.api.SendMessage(ctx, dm.ID, content, "")
	if err != nil {
		return "", fail(log, err, op, "User", userID)
	}

	done(log, zap.String("dm_channel_id", dm.ID), zap.String("message_id", m.ID))
	return format.Success("Direct message sent",
		format.Field{Key: "Message ID", Value: format.ID(m.ID)},
		format.Field{Key: "Recipient", Value: fmt.Sprintf("%s (`%s`)", format.DisplayName(&u), userID)},
		format.Field{Key: "Content", Value: content},
		format.Field{Key: "Sent At", Value: sentAt(m)},
	), nil
}

// DeleteMessage removes a message. The message is looked up first so the
// confirmation can name its author; a failed lookup other than 404 does not
// block the deletion.
func (s *Service) DeleteMessage(ctx context.Context, channelID, messageID string) (string, error) {
	const op = "deleting message"
	log := s.start(op, zap.String("channel_id", channelID), zap.String("message_id", messageID))

	if err := checkIDs("channel", channelID, "message", messageID); err != nil {
		return "", reject(log, err)
	}

	ch, err := s.channel(ctx, log, op, channelID)
	if err != nil {
		return "", err
	}

	author, preview := format.UnknownID, "Unknown content"
	switch m, err := s.api.ChannelMessage(ctx, channelID, messageID); {
	case err == nil:
		if m.Author != nil && m.Author.Username != "" {
			author = m.Author.Username
		}
		preview = format.Truncate(m.Content, 50)
	case apierr.Translate(err, op).Kind == apierr.NotFound:
		return "", fail(log, err, op, "Message", messageID)
	default:
		log.Warn("Message lookup failed, deleting anyway", zap.Error(err))
	}

	if err := s.api.DeleteMessage(ctx, channelID, messageID); err != nil {
		return "", fail(log, err, op, "Message", messageID)
	}

	done(log, zap.String("author", author))
	return format.Success("Message deleted",
		format.Field{Key: "Message ID", Value: format.ID(messageID)},
		channelField(ch),
		format.Field{Key: "Author", Value: author},
		format.Field{Key: "Content", Value: preview},
	), nil
}

// EditMessage replaces the content of a message the bot sent.
func (s *Service) EditMessage(ctx context.Context, channelID, messageID, content string) (string, error) {
	const op = "editing message"
	log := s.start(op, zap.String("channel_id", channelID), zap.String("message_id", messageID))

	if err := checkIDs("channel", channelID, "message", messageID); err != nil {
		return "", reject(log, err)
	}
	if err := checkContent(content); err != nil {
		return "", reject(log, err)
	}

	ch, err := s.channel(ctx, log, op, channelID)
	if err != nil {
		return "", err
	}

	me, err := s.api.CurrentUser(ctx)
	if err != nil {
		return "", fail(log, err, "fetching bot user", "", "")
	}
	old, err := s.api.ChannelMessage(ctx, channelID, messageID)
	if err != nil {
		return "", fail(log, err, op, "Message", messageID)
	}
	if old.Author == nil || old.Author.ID != me.ID {
		return "", reject(log, apierr.Invalid("Can only edit the bot's own messages. This message was sent by another user."))
	}

	if _, err := s.api.EditMessage(ctx, channelID, messageID, content); err != nil {
		return "", fail(log, err, op, "Message", messageID)
	}

	done(log)
	return format.Success("Message edited",
		format.Field{Key: "Message ID", Value: format.ID(messageID)},
		channelField(ch),
		format.Field{Key: "Old Content", Value: format.Truncate(old.Content, 50)},
		format.Field{Key: "New Content", Value: format.Truncate(content, 50)},
	), nil
}

func idOrEmpty(id string) string {
	if id == "" {
		return ""
	}
	return format.ID(id)
}
