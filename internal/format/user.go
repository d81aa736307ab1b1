package format

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/internal/model"
)

const cdnURL = "https://cdn.discordapp.com"

// User renders a user profile. fallbackID is used only when the record has
// no ID of its own.
func User(u model.User, fallbackID string) string {
	id := u.ID
	if id == "" {
		id = fallbackID
	}
	if id == "" {
		id = UnknownID
	}
	username := u.Username
	if username == "" {
		username = UnknownID
	}

	lines := []string{
		"# User: " + username,
		"",
		"- **Username**: " + username,
		"- **User ID**: " + ID(id),
	}

	if u.Discriminator != "" && u.Discriminator != "0" {
		lines = append(lines, "- **Discriminator**: #"+u.Discriminator)
	}
	if u.GlobalName != "" {
		lines = append(lines, "- **Display Name**: "+u.GlobalName)
	}

	if u.Bot {
		lines = append(lines, "- **Type**: Bot")
	} else {
		lines = append(lines, "- **Type**: User")
	}
	if u.System {
		lines = append(lines, "- **System User**: Yes")
	}

	if u.Avatar != "" {
		lines = append(lines, fmt.Sprintf("- **Avatar**: [View Avatar](%s/avatars/%s/%s.png)", cdnURL, id, u.Avatar))
	} else {
		lines = append(lines, "- **Avatar**: Default avatar")
	}
	if u.Banner != "" {
		lines = append(lines, fmt.Sprintf("- **Banner**: [View Banner](%s/banners/%s/%s.png)", cdnURL, id, u.Banner))
	}
	if u.AccentColor != 0 {
		lines = append(lines, fmt.Sprintf("- **Accent Color**: #%06x", u.AccentColor))
	}
	if u.PublicFlags != 0 {
		lines = append(lines, fmt.Sprintf("- **Public Flags**: %d", u.PublicFlags))
	}

	if created, err := discordgo.SnowflakeTimestamp(id); err == nil && id != UnknownID {
		lines = append(lines, "- **Account Created**: "+Timestamp(created))
	}

	return strings.Join(lines, "\n")
}
