package moderation

import (
	"math"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/internal/model"
)

const (
	// Position used for a member holding no roles beyond @everyone.
	EveryonePosition = -1
	EveryoneRoleName = "@everyone"
)

// GuildState is what the service fetches before a moderation decision.
type GuildState struct {
	GuildID string
	OwnerID string
	Roles   []model.Role
	Bot     model.Member
	Target  model.Member

	// TargetAbsent is set when the target is not a member of the guild.
	TargetAbsent bool
}

// NewHierarchyContext derives positions and effective bot permissions the way
// Discord does: the highest assigned role ranks a member, the @everyone role
// (whose ID equals the guild ID) contributes base permissions, and the guild
// owner outranks everyone and holds every permission.
func NewHierarchyContext(st GuildState) HierarchyContext {
	roles := make(map[string]model.Role, len(st.Roles))
	for _, r := range st.Roles {
		roles[r.ID] = r
	}

	botPos, botRole := highestRole(st.Bot.Roles, roles)
	targetPos, targetRole := highestRole(st.Target.Roles, roles)

	perms := roles[st.GuildID].Permissions
	for _, id := range st.Bot.Roles {
		perms |= roles[id].Permissions
	}

	if st.OwnerID != "" && memberID(st.Bot) == st.OwnerID {
		botPos = math.MaxInt32
		perms |= discordgo.PermissionAdministrator
	}

	return HierarchyContext{
		BotPosition:    botPos,
		TargetPosition: targetPos,
		TargetIsOwner:  st.OwnerID != "" && memberID(st.Target) == st.OwnerID,
		TargetAbsent:   st.TargetAbsent,
		BotPermissions: perms,
		BotRoleName:    botRole,
		TargetRoleName: targetRole,
	}
}

func highestRole(ids []string, roles map[string]model.Role) (int, string) {
	pos, name := EveryonePosition, EveryoneRoleName
	for _, id := range ids {
		r, ok := roles[id]
		if ok && r.Position > pos {
			pos, name = r.Position, r.Name
		}
	}
	return pos, name
}

func memberID(m model.Member) string {
	if m.User == nil {
		return ""
	}
	return m.User.ID
}
