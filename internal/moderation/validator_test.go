package moderation

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/internal/apierr"
	"github.com/keshon/discord-ops/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allModeration = discordgo.PermissionModerateMembers | discordgo.PermissionKickMembers | discordgo.PermissionBanMembers

func okContext() HierarchyContext {
	return HierarchyContext{BotPosition: 10, TargetPosition: 2, BotPermissions: allModeration}
}

func TestValidate_Approved(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "timeout min", req: Request{Action: Timeout, DurationMinutes: 1}},
		{name: "timeout max", req: Request{Action: Timeout, DurationMinutes: 40320}},
		{name: "untimeout", req: Request{Action: RemoveTimeout}},
		{name: "kick", req: Request{Action: Kick}},
		{name: "ban no delete", req: Request{Action: Ban, DeleteMessageDays: 0}},
		{name: "ban max delete", req: Request{Action: Ban, DeleteMessageDays: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.req, okContext())
			assert.True(t, res.Approved)
			assert.NoError(t, res.Err())
		})
	}
}

func TestValidate_MissingBotPermission(t *testing.T) {
	tests := []struct {
		action Action
		perms  int64
		name   string
	}{
		{action: Timeout, perms: discordgo.PermissionKickMembers | discordgo.PermissionBanMembers, name: "moderate_members"},
		{action: RemoveTimeout, perms: discordgo.PermissionBanMembers, name: "moderate_members"},
		{action: Kick, perms: discordgo.PermissionModerateMembers, name: "kick_members"},
		{action: Ban, perms: discordgo.PermissionKickMembers, name: "ban_members"},
	}
	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			hc := okContext()
			hc.BotPermissions = tt.perms
			res := Validate(Request{Action: tt.action, DurationMinutes: 10}, hc)

			assert.False(t, res.Approved)
			assert.Equal(t, apierr.MissingBotPermission, res.Kind)
			assert.Contains(t, res.Reason, tt.name)
			assert.Equal(t, apierr.MissingBotPermission, apierr.KindOf(res.Err()))
		})
	}
}

func TestValidate_AdministratorGrantsAll(t *testing.T) {
	hc := okContext()
	hc.BotPermissions = discordgo.PermissionAdministrator

	for _, a := range []Action{Timeout, RemoveTimeout, Kick, Ban} {
		assert.True(t, Validate(Request{Action: a, DurationMinutes: 5}, hc).Approved, a.String())
	}
}

func TestValidate_OwnerImmunity(t *testing.T) {
	// owner immunity wins regardless of hierarchy
	for _, positions := range [][2]int{{10, 2}, {2, 10}, {5, 5}} {
		hc := HierarchyContext{
			BotPosition:    positions[0],
			TargetPosition: positions[1],
			TargetIsOwner:  true,
			BotPermissions: allModeration,
		}
		res := Validate(Request{Action: Kick}, hc)
		assert.Equal(t, apierr.OwnerImmunity, res.Kind)
	}
}

func TestValidate_HierarchyViolation(t *testing.T) {
	for bot := -1; bot <= 6; bot++ {
		for target := bot; target <= 6; target++ {
			hc := HierarchyContext{BotPosition: bot, TargetPosition: target, BotPermissions: allModeration}
			res := Validate(Request{Action: Ban}, hc)
			require.False(t, res.Approved, "bot=%d target=%d", bot, target)
			assert.Equal(t, apierr.HierarchyViolation, res.Kind)
		}
	}
}

func TestValidate_EqualPositionsRejected(t *testing.T) {
	hc := HierarchyContext{BotPosition: 5, TargetPosition: 5, BotPermissions: allModeration}

	res := Validate(Request{Action: Timeout, DurationMinutes: 10}, hc)

	assert.False(t, res.Approved)
	assert.Equal(t, apierr.HierarchyViolation, res.Kind)
	assert.Contains(t, res.Reason, "position 5")
}

func TestValidate_TimeoutBounds(t *testing.T) {
	for _, minutes := range []int{-10, -1, 0, 40321, 100000} {
		res := Validate(Request{Action: Timeout, DurationMinutes: minutes}, okContext())
		assert.Equal(t, apierr.InvalidParameter, res.Kind, "minutes=%d", minutes)
	}
}

func TestValidate_BanDeleteBounds(t *testing.T) {
	for _, days := range []int{-1, 8, 30} {
		res := Validate(Request{Action: Ban, DeleteMessageDays: days}, okContext())
		assert.Equal(t, apierr.InvalidParameter, res.Kind, "days=%d", days)
	}
}

func TestValidate_KickIgnoresNumericFields(t *testing.T) {
	res := Validate(Request{Action: Kick, DurationMinutes: -5, DeleteMessageDays: 99}, okContext())
	assert.True(t, res.Approved)
}

func TestValidate_Precedence(t *testing.T) {
	// every check fails: permission must win
	hc := HierarchyContext{BotPosition: 1, TargetPosition: 9, TargetIsOwner: true}
	res := Validate(Request{Action: Timeout, DurationMinutes: 0}, hc)
	assert.Equal(t, apierr.MissingBotPermission, res.Kind)

	// permission present: ownership wins
	hc.BotPermissions = allModeration
	assert.Equal(t, apierr.OwnerImmunity, Validate(Request{Action: Timeout}, hc).Kind)

	// not owner: hierarchy wins over bad duration
	hc.TargetIsOwner = false
	assert.Equal(t, apierr.HierarchyViolation, Validate(Request{Action: Timeout}, hc).Kind)
}

func TestValidate_UnknownAction(t *testing.T) {
	res := Validate(Request{Action: Action(42)}, okContext())
	assert.Equal(t, apierr.InvalidParameter, res.Kind)
}

func TestNewHierarchyContext(t *testing.T) {
	const guildID = "100000000000000000"
	roles := []model.Role{
		{ID: guildID, Name: "@everyone", Position: 0, Permissions: discordgo.PermissionViewChannel},
		{ID: "r-mod", Name: "Mod", Position: 5, Permissions: discordgo.PermissionKickMembers},
		{ID: "r-bot", Name: "Bot", Position: 8, Permissions: discordgo.PermissionBanMembers},
		{ID: "r-member", Name: "Member", Position: 2},
	}
	st := GuildState{
		GuildID: guildID,
		OwnerID: "owner",
		Roles:   roles,
		Bot:     model.Member{User: &model.User{ID: "bot"}, Roles: []string{"r-member", "r-bot"}},
		Target:  model.Member{User: &model.User{ID: "target"}, Roles: []string{"r-mod", "missing-role"}},
	}

	hc := NewHierarchyContext(st)

	assert.Equal(t, 8, hc.BotPosition)
	assert.Equal(t, "Bot", hc.BotRoleName)
	assert.Equal(t, 5, hc.TargetPosition)
	assert.Equal(t, "Mod", hc.TargetRoleName)
	assert.False(t, hc.TargetIsOwner)
	assert.True(t, HasPermission(hc.BotPermissions, discordgo.PermissionBanMembers))
	assert.True(t, HasPermission(hc.BotPermissions, discordgo.PermissionViewChannel))
	assert.False(t, HasPermission(hc.BotPermissions, discordgo.PermissionKickMembers))
}

func TestNewHierarchyContext_NoRolesAndOwners(t *testing.T) {
	st := GuildState{
		GuildID: "g",
		OwnerID: "target",
		Bot:     model.Member{User: &model.User{ID: "bot"}},
		Target:  model.Member{User: &model.User{ID: "target"}},
	}
	hc := NewHierarchyContext(st)
	assert.Equal(t, EveryonePosition, hc.BotPosition)
	assert.Equal(t, EveryonePosition, hc.TargetPosition)
	assert.True(t, hc.TargetIsOwner)

	st.OwnerID = "bot"
	hc = NewHierarchyContext(st)
	assert.False(t, hc.TargetIsOwner)
	assert.Greater(t, hc.BotPosition, hc.TargetPosition)
	assert.True(t, Validate(Request{Action: Ban}, hc).Approved)
}

func TestValidate_AbsentTargetSkipsHierarchy(t *testing.T) {
	hc := HierarchyContext{
		BotPosition:    EveryonePosition,
		TargetPosition: EveryonePosition,
		TargetAbsent:   true,
		BotPermissions: discordgo.PermissionBanMembers,
	}
	assert.True(t, Validate(Request{Action: Ban}, hc).Approved)

	// permission and parameter checks still apply
	assert.Equal(t, apierr.InvalidParameter, Validate(Request{Action: Ban, DeleteMessageDays: 8}, hc).Kind)
	hc.BotPermissions = 0
	assert.Equal(t, apierr.MissingBotPermission, Validate(Request{Action: Ban}, hc).Kind)

	hc.BotPermissions = discordgo.PermissionBanMembers
	hc.TargetAbsent = false
	assert.Equal(t, apierr.HierarchyViolation, Validate(Request{Action: Ban}, hc).Kind)
}

func TestNewHierarchyContext_CarriesAbsentTarget(t *testing.T) {
	st := GuildState{
		GuildID:      "g",
		Roles:        []model.Role{{ID: "g", Name: EveryoneRoleName, Permissions: discordgo.PermissionBanMembers}},
		Bot:          model.Member{User: &model.User{ID: "bot"}},
		Target:       model.Member{User: &model.User{ID: "stranger"}},
		TargetAbsent: true,
	}
	hc := NewHierarchyContext(st)
	assert.True(t, hc.TargetAbsent)
	assert.Equal(t, hc.BotPosition, hc.TargetPosition)
	assert.True(t, Validate(Request{Action: Ban}, hc).Approved)
}
