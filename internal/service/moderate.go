package service

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/discord-ops/internal/apierr"
	"github.com/keshon/discord-ops/internal/format"
	"github.com/keshon/discord-ops/internal/model"
	"github.com/keshon/discord-ops/internal/moderation"
	"go.uber.org/zap"
)

// Moderation request states, logged as the request moves through them.
const (
	stateReceived       = "received"
	stateChecked        = "checked"
	stateRejected       = "rejected"
	stateDispatched     = "dispatched"
	stateSucceeded      = "succeeded"
	stateUpstreamFailed = "upstream_failed"
)

var moderationOps = map[moderation.Action]string{
	moderation.Timeout:       "timing out user",
	moderation.RemoveTimeout: "removing user timeout",
	moderation.Kick:          "kicking user",
	moderation.Ban:           "banning user",
}

func (s *Service) TimeoutUser(ctx context.Context, guildID, userID string, minutes int, reason string) (string, error) {
	req := moderation.Request{Action: moderation.Timeout, GuildID: guildID, UserID: userID, Reason: reason, DurationMinutes: minutes}
	return s.moderate(ctx, req, func(ctx context.Context) ([]format.Field, error) {
		until := s.now().Add(time.Duration(minutes) * time.Minute).UTC()
		if err := s.api.TimeoutMember(ctx, guildID, userID, until, reason); err != nil {
			return nil, err
		}
		return []format.Field{
			{Key: "Duration", Value: fmt.Sprintf("%d minutes", minutes)},
			{Key: "Reason", Value: reason},
			{Key: "Expires", Value: format.Timestamp(until)},
		}, nil
	})
}

func (s *Service) UntimeoutUser(ctx context.Context, guildID, userID, reason string) (string, error) {
	req := moderation.Request{Action: moderation.RemoveTimeout, GuildID: guildID, UserID: userID, Reason: reason}
	return s.moderate(ctx, req, func(ctx context.Context) ([]format.Field, error) {
		if err := s.api.RemoveTimeout(ctx, guildID, userID, reason); err != nil {
			return nil, err
		}
		return []format.Field{{Key: "Reason", Value: reason}}, nil
	})
}

func (s *Service) KickUser(ctx context.Context, guildID, userID, reason string) (string, error) {
	req := moderation.Request{Action: moderation.Kick, GuildID: guildID, UserID: userID, Reason: reason}
	return s.moderate(ctx, req, func(ctx context.Context) ([]format.Field, error) {
		if err := s.api.KickMember(ctx, guildID, userID, reason); err != nil {
			return nil, err
		}
		return []format.Field{{Key: "Reason", Value: reason}}, nil
	})
}

// BanUser bans a user, deleting deleteDays days of their messages. The
// user does not have to be a current member of the guild.
func (s *Service) BanUser(ctx context.Context, guildID, userID, reason string, deleteDays int) (string, error) {
	req := moderation.Request{Action: moderation.Ban, GuildID: guildID, UserID: userID, Reason: reason, DeleteMessageDays: deleteDays}
	return s.moderate(ctx, req, func(ctx context.Context) ([]format.Field, error) {
		if err := s.api.BanMember(ctx, guildID, userID, reason, deleteDays); err != nil {
			return nil, err
		}
		deletion := "No messages deleted"
		if deleteDays > 0 {
			deletion = fmt.Sprintf("%d day(s) of messages deleted", deleteDays)
		}
		return []format.Field{
			{Key: "Reason", Value: reason},
			{Key: "Message Deletion", Value: deletion},
		}, nil
	})
}

// moderate gathers the guild state, validates the request and, once
// approved, runs dispatch. dispatch returns the action-specific fields of
// the success response.
func (s *Service) moderate(ctx context.Context, req moderation.Request, dispatch func(context.Context) ([]format.Field, error)) (string, error) {
	op := moderationOps[req.Action]
	log := s.start(op, zap.String("guild_id", req.GuildID), zap.String("user_id", req.UserID))
	log.Debug("Moderation state", zap.String("state", stateReceived))

	if err := checkIDs("guild", req.GuildID, "user", req.UserID); err != nil {
		return "", reject(log, err)
	}
	if err := checkReason(req.Reason); err != nil {
		return "", reject(log, err)
	}
	if !s.gate.GuildAllowed(req.GuildID) {
		return "", reject(log, apierr.Denied("guild", req.GuildID))
	}

	guild, target, st, err := s.guildState(ctx, log, op, req)
	if err != nil {
		return "", err
	}

	hc := moderation.NewHierarchyContext(st)
	log.Debug("Moderation state",
		zap.String("state", stateChecked),
		zap.Int("bot_position", hc.BotPosition),
		zap.Int("target_position", hc.TargetPosition),
		zap.Bool("target_is_owner", hc.TargetIsOwner),
		zap.Bool("target_absent", hc.TargetAbsent),
	)

	if res := moderation.Validate(req, hc); !res.Approved {
		log.Warn("Moderation rejected", zap.String("state", stateRejected), zap.Stringer("kind", res.Kind))
		return "", res.Err()
	}

	log.Debug("Moderation state", zap.String("state", stateDispatched))
	fields, err := dispatch(ctx)
	if err != nil {
		log.Debug("Moderation state", zap.String("state", stateUpstreamFailed))
		return "", fail(log, err, op, "", "")
	}

	done(log, zap.String("state", stateSucceeded), zap.String("reason", req.Reason))
	fields = append([]format.Field{
		{Key: "User", Value: fmt.Sprintf("%s (`%s`)", displayName(target), req.UserID)},
		{Key: "Guild", Value: fmt.Sprintf("%s (`%s`)", guild.Name, req.GuildID)},
	}, fields...)
	return format.Success("User "+req.Action.Verb(), fields...), nil
}

// guildState fetches what the validator needs: the guild and its roles,
// the bot's member record and the target's. Only a ban may target a user
// who is not a member.
func (s *Service) guildState(ctx context.Context, log *zap.Logger, op string, req moderation.Request) (model.Guild, model.User, moderation.GuildState, error) {
	var st moderation.GuildState

	guild, err := s.api.Guild(ctx, req.GuildID)
	if err != nil {
		return guild, model.User{}, st, fail(log, err, op, "Guild", req.GuildID)
	}
	target, err := s.api.User(ctx, req.UserID)
	if err != nil {
		return guild, target, st, fail(log, err, op, "User", req.UserID)
	}
	me, err := s.api.CurrentUser(ctx)
	if err != nil {
		return guild, target, st, fail(log, err, "fetching bot user", "", "")
	}
	bot, err := s.api.GuildMember(ctx, req.GuildID, me.ID)
	if err != nil {
		return guild, target, st, fail(log, err, "fetching bot member", "", "")
	}

	absent := false
	member, err := s.api.GuildMember(ctx, req.GuildID, req.UserID)
	switch {
	case err == nil:
	case req.Action == moderation.Ban && apierr.Translate(err, op).Kind == apierr.NotFound:
		member, absent = model.Member{User: &target}, true
	case apierr.Translate(err, op).Kind == apierr.NotFound:
		return guild, target, st, reject(log, apierr.New(apierr.NotFound,
			"User `%s` is not a member of %s.", req.UserID, guild.Name))
	default:
		return guild, target, st, fail(log, err, "fetching target member", "", "")
	}

	roles, err := s.api.GuildRoles(ctx, req.GuildID)
	if err != nil {
		return guild, target, st, fail(log, err, "fetching guild roles", "", "")
	}

	st = moderation.GuildState{
		GuildID: req.GuildID,
		OwnerID: guild.OwnerID,
		Roles:   roles,
		Bot:     bot,
		Target:  member,

		TargetAbsent: absent,
	}
	return guild, target, st, nil
}

func displayName(u model.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	if u.Username != "" {
		return u.Username
	}
	return format.UnknownUser
}
