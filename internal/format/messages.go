package format

import (
	"fmt"
	"strings"

	"github.com/keshon/discord-ops/internal/model"
)

// Messages renders messages in the order given.
func Messages(messages []model.Message, channelName string) string {
	if len(messages) == 0 {
		return fmt.Sprintf("# Messages in #%s\n\nNo messages found in this channel.", channelName)
	}

	lines := []string{
		"# Messages in #" + channelName,
		"",
		"Showing " + plural(len(messages), "recent message") + ":",
		"",
	}

	for _, m := range messages {
		name, id := authorOf(m.Author)
		lines = append(lines,
			"## Message from "+name,
			fmt.Sprintf("- **Author**: %s (`%s`)", name, id),
			"- **Time**: "+Timestamp(m.Timestamp),
			"- **Message ID**: "+ID(orUnknown(m.ID)),
		)
		lines = append(lines, contentLines(m.Content)...)
		lines = append(lines, extraLines(m, true)...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// DMThread describes a direct-message conversation for DirectMessages.
type DMThread struct {
	ChannelID string
	Peer      model.User
	// BotID is empty when the bot account could not be resolved.
	BotID   string
	BotName string
}

// DirectMessages renders a DM history, labelling each message as sent by the
// bot, by the peer, or by someone else.
func DirectMessages(messages []model.Message, thread DMThread) string {
	peer := DisplayName(&thread.Peer)
	if len(messages) == 0 {
		return fmt.Sprintf("No direct messages found with %s.", peer)
	}

	botName := thread.BotName
	if botName == "" {
		botName = "Bot"
	}

	lines := []string{
		fmt.Sprintf("# Direct Messages with %s", peer),
		"",
		"- **User ID**: " + ID(thread.Peer.ID),
		"- **DM Channel ID**: " + ID(thread.ChannelID),
		"",
		"Retrieved " + plural(len(messages), "message") + ":",
		"",
	}

	for i, m := range messages {
		var sender string
		switch authorID := idOf(m.Author); {
		case thread.BotID != "" && authorID == thread.BotID:
			sender = botName + " (You)"
		case authorID == thread.Peer.ID:
			sender = peer
		default:
			sender = DisplayName(m.Author)
		}

		lines = append(lines,
			fmt.Sprintf("## %d. [%s] %s", i+1, Timestamp(m.Timestamp), sender),
			"- **Message ID**: "+ID(orUnknown(m.ID)),
		)
		lines = append(lines, contentLines(m.Content)...)
		lines = append(lines, extraLines(m, false)...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func contentLines(content string) []string {
	if content == "" {
		return []string{"- **Content**: *" + NoContent + "*"}
	}
	return []string{
		"- **Content**:",
		"  ```",
		"  " + content,
		"  ```",
	}
}

// extraLines renders attachments and embeds; when all is false only the
// first three attachment names are listed.
func extraLines(m model.Message, all bool) []string {
	var lines []string
	if n := len(m.Attachments); n > 0 {
		lines = append(lines, "- **Attachments**: "+plural(n, "file"))
		shown := m.Attachments
		if !all && n > 3 {
			shown = shown[:3]
		}
		for _, a := range shown {
			name := a.Filename
			if name == "" {
				name = "Unknown file"
			}
			lines = append(lines, "  - "+name)
		}
		if len(shown) < n {
			lines = append(lines, fmt.Sprintf("  - and %d more", n-len(shown)))
		}
	}
	if m.Embeds > 0 {
		lines = append(lines, "- **Embeds**: "+plural(m.Embeds, "embed"))
	}
	if m.Reactions > 0 {
		lines = append(lines, "- **Reactions**: "+plural(m.Reactions, "reaction"))
	}
	return lines
}

func authorOf(u *model.User) (name, id string) {
	if u == nil {
		return UnknownUser, UnknownID
	}
	name = u.Username
	if name == "" {
		name = UnknownUser
	}
	return name, orUnknown(u.ID)
}

func idOf(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownID
	}
	return s
}
