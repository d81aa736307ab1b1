package format

import (
	"strconv"
	"strings"

	"github.com/keshon/discord-ops/internal/model"
)

// GuildEntry pairs a guild from the membership list with its detail record.
// Details is nil when the lookup failed.
type GuildEntry struct {
	Guild   model.Guild
	Details *model.Guild
}

func Guilds(entries []GuildEntry) string {
	if len(entries) == 0 {
		return "# Discord Guilds\n\nNo guilds found or bot has no access to any guilds."
	}

	lines := []string{
		"# Discord Guilds",
		"",
		"Found " + plural(len(entries), "accessible guild") + ":",
		"",
	}

	for _, e := range entries {
		name := e.Guild.Name
		if name == "" {
			name = "Unknown Guild"
		}
		lines = append(lines,
			"## "+name,
			"- **ID**: "+ID(e.Guild.ID),
			"- **Owner**: "+yesNo(e.Guild.Owner),
		)

		if e.Details == nil {
			lines = append(lines, "- **Details**: Unable to fetch additional details", "")
			continue
		}

		members := "Unknown"
		if e.Details.ApproximateMemberCount > 0 {
			members = strconv.Itoa(e.Details.ApproximateMemberCount)
		}
		description := e.Details.Description
		if description == "" {
			description = "None"
		}
		lines = append(lines,
			"- **Member Count**: "+members,
			"- **Description**: "+description,
		)
		if len(e.Details.Features) > 0 {
			lines = append(lines, "- **Features**: "+strings.Join(e.Details.Features, ", "))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
