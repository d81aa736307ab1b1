package moderation

import (
	"github.com/bwmarrin/discordgo"
)

type Action int

const (
	Timeout Action = iota + 1
	RemoveTimeout
	Kick
	Ban
)

const (
	MinTimeoutMinutes = 1
	MaxTimeoutMinutes = 28 * 24 * 60 // 40320, Discord's cap

	MinBanDeleteDays = 0
	MaxBanDeleteDays = 7
)

var actionNames = map[Action]string{
	Timeout:       "timeout",
	RemoveTimeout: "untimeout",
	Kick:          "kick",
	Ban:           "ban",
}

// past tense, used in success responses
var actionVerbs = map[Action]string{
	Timeout:       "timed out",
	RemoveTimeout: "timeout removed",
	Kick:          "kicked",
	Ban:           "banned",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

func (a Action) Verb() string { return actionVerbs[a] }

func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

// Permission returns the permission bit the bot needs for the action.
func (a Action) Permission() int64 {
	switch a {
	case Timeout, RemoveTimeout:
		return discordgo.PermissionModerateMembers
	case Kick:
		return discordgo.PermissionKickMembers
	case Ban:
		return discordgo.PermissionBanMembers
	}
	return 0
}

// PermissionName is the API name of the bit returned by Permission.
func (a Action) PermissionName() string {
	switch a {
	case Timeout, RemoveTimeout:
		return "moderate_members"
	case Kick:
		return "kick_members"
	case Ban:
		return "ban_members"
	}
	return ""
}

// HasPermission reports whether perms grants bit. Administrator grants everything.
func HasPermission(perms, bit int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&bit == bit
}
