package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/internal/model"
)

var channelGroups = map[discordgo.ChannelType]string{
	discordgo.ChannelTypeGuildText:          "Text Channels",
	discordgo.ChannelTypeGuildVoice:         "Voice Channels",
	discordgo.ChannelTypeGuildCategory:      "Categories",
	discordgo.ChannelTypeGuildNews:          "Announcement Channels",
	discordgo.ChannelTypeGuildNewsThread:    "Announcement Threads",
	discordgo.ChannelTypeGuildPublicThread:  "Public Threads",
	discordgo.ChannelTypeGuildPrivateThread: "Private Threads",
	discordgo.ChannelTypeGuildStageVoice:    "Stage Channels",
	discordgo.ChannelTypeGuildForum:         "Forum Channels",
}

// ChannelGroup returns the heading a channel type is listed under.
func ChannelGroup(channelType int) string {
	if name, ok := channelGroups[discordgo.ChannelType(channelType)]; ok {
		return name
	}
	return fmt.Sprintf("Type %d", channelType)
}

// Channels groups channels by type. Groups appear in the order their first
// channel appears in the input.
func Channels(channels []model.Channel, guildName string) string {
	if len(channels) == 0 {
		return fmt.Sprintf("# Channels in %s\n\nNo accessible channels found in this guild.", guildName)
	}

	var order []string
	groups := make(map[string][]model.Channel)
	for _, ch := range channels {
		group := ChannelGroup(ch.Type)
		if _, seen := groups[group]; !seen {
			order = append(order, group)
		}
		groups[group] = append(groups[group], ch)
	}

	lines := []string{
		"# Channels in " + guildName,
		"",
		"Found " + plural(len(channels), "accessible channel") + ":",
		"",
	}

	for _, group := range order {
		lines = append(lines, "## "+group)
		for _, ch := range groups[group] {
			lines = append(lines,
				"### "+ch.Name,
				"- **ID**: "+ID(ch.ID),
				"- **Type**: "+strconv.Itoa(ch.Type),
			)
			if ch.Topic != "" {
				lines = append(lines, "- **Topic**: "+ch.Topic)
			}
			if ch.ParentID != "" {
				lines = append(lines, "- **Category**: "+ch.ParentID)
			}
			lines = append(lines, "- **Position**: "+strconv.Itoa(ch.Position))
			if ch.NSFW {
				lines = append(lines, "- **NSFW**: Yes")
			}
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}
