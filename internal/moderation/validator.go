// Package moderation decides whether the bot may apply a moderation action
// to a guild member. Validation is pure: it never calls the API.
package moderation

import (
	"github.com/keshon/discord-ops/internal/apierr"
)

type Request struct {
	Action  Action
	GuildID string
	UserID  string
	Reason  string

	// Timeout only.
	DurationMinutes int
	// Ban only.
	DeleteMessageDays int
}

// HierarchyContext is the slice of guild state the decision depends on.
type HierarchyContext struct {
	BotPosition    int
	TargetPosition int
	TargetIsOwner  bool
	// TargetAbsent marks a target outside the guild; role hierarchy does
	// not apply to it.
	TargetAbsent   bool
	BotPermissions int64

	// Names are informational, used in rejection reasons.
	BotRoleName    string
	TargetRoleName string
}

type Result struct {
	Approved bool
	Kind     apierr.Kind
	Reason   string
}

// Err returns nil for an approved result and an *apierr.Error otherwise.
func (r Result) Err() error {
	if r.Approved {
		return nil
	}
	return &apierr.Error{Kind: r.Kind, Message: r.Reason}
}

func reject(kind apierr.Kind, format string, args ...any) Result {
	return Result{Kind: kind, Reason: apierr.New(kind, format, args...).Message}
}

// Validate applies the checks in a fixed order; the first failure wins:
// bot permission, owner immunity, role hierarchy, action parameters.
func Validate(req Request, hc HierarchyContext) Result {
	if !req.Action.Valid() {
		return reject(apierr.InvalidParameter, "Unknown moderation action.")
	}

	if !HasPermission(hc.BotPermissions, req.Action.Permission()) {
		return reject(apierr.MissingBotPermission,
			"Bot does not have '%s' permission required to %s users.", req.Action.PermissionName(), req.Action)
	}

	if hc.TargetIsOwner {
		return reject(apierr.OwnerImmunity, "Cannot %s the guild owner.", req.Action)
	}

	if !hc.TargetAbsent && hc.BotPosition <= hc.TargetPosition {
		return reject(apierr.HierarchyViolation,
			"Cannot moderate `%s` due to role hierarchy restrictions.\n"+
				"- **Bot's highest role**: %s (position %d)\n"+
				"- **Target user's highest role**: %s (position %d)\n"+
				"- **Note**: Bot's role must be higher than target user's role to perform moderation actions.",
			req.UserID, roleName(hc.BotRoleName), hc.BotPosition, roleName(hc.TargetRoleName), hc.TargetPosition)
	}

	return CheckParameters(req)
}

// CheckParameters validates only the action-specific numeric bounds.
func CheckParameters(req Request) Result {
	switch req.Action {
	case Timeout:
		if req.DurationMinutes < MinTimeoutMinutes || req.DurationMinutes > MaxTimeoutMinutes {
			return reject(apierr.InvalidParameter,
				"Timeout duration must be between %d and %d minutes (28 days). Provided: %d minutes.",
				MinTimeoutMinutes, MaxTimeoutMinutes, req.DurationMinutes)
		}
	case Ban:
		if req.DeleteMessageDays < MinBanDeleteDays || req.DeleteMessageDays > MaxBanDeleteDays {
			return reject(apierr.InvalidParameter,
				"delete_message_days must be between %d and %d (got %d).",
				MinBanDeleteDays, MaxBanDeleteDays, req.DeleteMessageDays)
		}
	}
	return Result{Approved: true}
}

func roleName(name string) string {
	if name == "" {
		return EveryoneRoleName
	}
	return name
}
