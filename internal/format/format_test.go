package format

import (
	"strings"
	"testing"
	"time"

	"github.com/keshon/discord-ops/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestGuilds_Empty(t *testing.T) {
	out := Guilds(nil)
	assert.NotEmpty(t, out)
	assert.Contains(t, strings.ToLower(out), "no guilds found")
}

func TestGuilds(t *testing.T) {
	entries := []GuildEntry{
		{
			Guild: model.Guild{ID: "1", Name: "Alpha", Owner: true},
			Details: &model.Guild{
				ID:                     "1",
				ApproximateMemberCount: 42,
				Description:            "first",
				Features:               []string{"COMMUNITY", "NEWS"},
			},
		},
		{Guild: model.Guild{ID: "2", Name: "Beta"}},
	}

	out := Guilds(entries)

	assert.Contains(t, out, "Found 2 accessible guild(s):")
	assert.Contains(t, out, "## Alpha\n- **ID**: `1`\n- **Owner**: Yes\n- **Member Count**: 42\n- **Description**: first\n- **Features**: COMMUNITY, NEWS")
	assert.Contains(t, out, "## Beta\n- **ID**: `2`\n- **Owner**: No\n- **Details**: Unable to fetch additional details")
	assert.Equal(t, out, Guilds(entries))
}

func TestGuilds_DetailFallbacks(t *testing.T) {
	out := Guilds([]GuildEntry{{Guild: model.Guild{ID: "1"}, Details: &model.Guild{}}})
	assert.Contains(t, out, "## Unknown Guild")
	assert.Contains(t, out, "- **Member Count**: Unknown")
	assert.Contains(t, out, "- **Description**: None")
	assert.NotContains(t, out, "Features")
}

func TestChannels_Empty(t *testing.T) {
	out := Channels(nil, "Guild")
	assert.Equal(t, "# Channels in Guild\n\nNo accessible channels found in this guild.", out)
}

func TestChannels_Grouping(t *testing.T) {
	channels := []model.Channel{
		{ID: "c1", Name: "general", Type: 0, Topic: "chat", ParentID: "cat1", Position: 1},
		{ID: "v1", Name: "lounge", Type: 2, Position: 2},
		{ID: "cat1", Name: "Main", Type: 4, Position: 0},
		{ID: "n1", Name: "news", Type: 5, Position: 3, NSFW: true},
		{ID: "x1", Name: "odd", Type: 99, Position: 4},
		{ID: "c2", Name: "random", Type: 0, Position: 5},
	}

	out := Channels(channels, "Guild")

	assert.Contains(t, out, "Found 6 accessible channel(s):")
	for _, heading := range []string{"## Text Channels", "## Voice Channels", "## Categories", "## Announcement Channels", "## Type 99"} {
		assert.Contains(t, out, heading)
	}
	assert.Less(t, strings.Index(out, "## Text Channels"), strings.Index(out, "## Voice Channels"))
	assert.Less(t, strings.Index(out, "### general"), strings.Index(out, "### random"))
	assert.Less(t, strings.Index(out, "### random"), strings.Index(out, "## Voice Channels"))

	assert.Contains(t, out, "### general\n- **ID**: `c1`\n- **Type**: 0\n- **Topic**: chat\n- **Category**: cat1\n- **Position**: 1")
	assert.Contains(t, out, "### lounge\n- **ID**: `v1`\n- **Type**: 2\n- **Position**: 2")
	assert.Contains(t, out, "- **NSFW**: Yes")
}

func TestChannelGroup(t *testing.T) {
	assert.Equal(t, "Text Channels", ChannelGroup(0))
	assert.Equal(t, "Forum Channels", ChannelGroup(15))
	assert.Equal(t, "Type 7", ChannelGroup(7))
}

func TestMessages_Empty(t *testing.T) {
	out := Messages([]model.Message{}, "general")
	assert.NotEmpty(t, out)
	assert.Contains(t, strings.ToLower(out), "no messages")
}

func TestMessages(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	messages := []model.Message{
		{
			ID:        "m1",
			Content:   "hello",
			Author:    &model.User{ID: "u1", Username: "alice"},
			Timestamp: ts,
			Attachments: []model.Attachment{
				{Filename: "a.png"}, {Filename: "b.txt"},
			},
			Embeds: 1,
		},
		{ID: "m2"},
	}

	out := Messages(messages, "general")

	assert.Contains(t, out, "# Messages in #general")
	assert.Contains(t, out, "## Message from alice\n- **Author**: alice (`u1`)\n- **Time**: 2024-03-01 12:30:00 UTC\n- **Message ID**: `m1`")
	assert.Contains(t, out, "  hello")
	assert.Contains(t, out, "- **Attachments**: 2 file(s)\n  - a.png\n  - b.txt")
	assert.Contains(t, out, "- **Embeds**: 1 embed(s)")

	assert.Contains(t, out, "## Message from Unknown User\n- **Author**: Unknown User (`Unknown`)\n- **Time**: Unknown time")
	assert.Contains(t, out, "(No text content)")
}

func TestMessages_EmptyContentPlaceholder(t *testing.T) {
	out := Messages([]model.Message{{ID: "1", Author: &model.User{ID: "2", Username: "bob"}}}, "c")
	assert.Contains(t, out, "(No text content)")
}

func TestMessages_WhitespaceContentKept(t *testing.T) {
	out := Messages([]model.Message{{ID: "1", Content: "   ", Author: &model.User{ID: "2", Username: "bob"}}}, "c")
	assert.NotContains(t, out, NoContent)
	assert.Contains(t, out, "- **Content**:\n  ```\n     \n  ```")

	out = DirectMessages([]model.Message{{ID: "1", Content: "\t"}}, DMThread{ChannelID: "dm", Peer: model.User{ID: "p", Username: "p"}})
	assert.NotContains(t, out, NoContent)
}

func TestDirectMessages(t *testing.T) {
	peer := model.User{ID: "peer", Username: "alice", Discriminator: "0"}
	thread := DMThread{ChannelID: "dm1", Peer: peer, BotID: "bot", BotName: "@helper"}

	assert.Equal(t, "No direct messages found with @alice.", DirectMessages(nil, thread))

	messages := []model.Message{
		{ID: "1", Content: "hi", Author: &model.User{ID: "bot", Username: "helper"}},
		{ID: "2", Content: "hey", Author: &model.User{ID: "peer", Username: "alice"}},
		{ID: "3", Author: &model.User{ID: "other", Username: "eve"}, Attachments: []model.Attachment{
			{Filename: "1"}, {Filename: "2"}, {Filename: "3"}, {Filename: "4"}, {Filename: "5"},
		}},
	}
	out := DirectMessages(messages, thread)

	assert.Contains(t, out, "# Direct Messages with @alice")
	assert.Contains(t, out, "- **DM Channel ID**: `dm1`")
	assert.Contains(t, out, "@helper (You)")
	assert.Contains(t, out, "] @alice\n")
	assert.Contains(t, out, "] @eve\n")
	assert.Contains(t, out, "- **Attachments**: 5 file(s)\n  - 1\n  - 2\n  - 3\n  - and 2 more")
}

func TestUser_NewUsernameScheme(t *testing.T) {
	out := User(model.User{ID: "123", Username: "foo", Discriminator: "0", GlobalName: "Foo"}, "")

	assert.Contains(t, out, "- **Display Name**: Foo")
	assert.NotContains(t, out, "Discriminator")
	assert.Contains(t, out, "- **User ID**: `123`")
	assert.Contains(t, out, "- **Type**: User")
	assert.Contains(t, out, "- **Avatar**: Default avatar")
}

func TestUser_Full(t *testing.T) {
	u := model.User{
		ID:            "80351110224678912",
		Username:      "nelly",
		Discriminator: "1337",
		Bot:           true,
		System:        true,
		Avatar:        "8342729096ea3675442027381ff50dfe",
		Banner:        "06c16474723fe537c283b8efa61a30c8",
		AccentColor:   0x00ff,
		PublicFlags:   64,
	}

	out := User(u, "ignored")

	assert.Contains(t, out, "- **User ID**: `80351110224678912`")
	assert.Contains(t, out, "- **Discriminator**: #1337")
	assert.Contains(t, out, "- **Type**: Bot")
	assert.Contains(t, out, "- **System User**: Yes")
	assert.Contains(t, out, "(https://cdn.discordapp.com/avatars/80351110224678912/8342729096ea3675442027381ff50dfe.png)")
	assert.Contains(t, out, "(https://cdn.discordapp.com/banners/80351110224678912/06c16474723fe537c283b8efa61a30c8.png)")
	assert.Contains(t, out, "- **Accent Color**: #0000ff")
	assert.Contains(t, out, "- **Public Flags**: 64")
	assert.Contains(t, out, "- **Account Created**: 2015-")
	assert.NotContains(t, out, "ignored")
}

func TestUser_FallbackID(t *testing.T) {
	out := User(model.User{Username: "x"}, "555")
	assert.Contains(t, out, "- **User ID**: `555`")

	out = User(model.User{}, "")
	assert.Contains(t, out, "- **User ID**: `Unknown`")
	assert.NotContains(t, out, "Account Created")
}

func TestUser_DiscriminatorNeverShownForZero(t *testing.T) {
	for _, u := range []model.User{
		{ID: "1", Username: "a", Discriminator: "0"},
		{ID: "1", Username: "a", Discriminator: "0", GlobalName: "A", Bot: true},
		{Username: "a", Discriminator: "0", Avatar: "hash"},
	} {
		assert.NotContains(t, User(u, "9"), "Discriminator")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want string
	}{
		{name: "nil", user: nil, want: "@Unknown User"},
		{name: "new scheme", user: &model.User{Username: "foo", Discriminator: "0"}, want: "@foo"},
		{name: "new scheme global", user: &model.User{Username: "foo", Discriminator: "0", GlobalName: "Foo"}, want: "Foo (@foo)"},
		{name: "legacy", user: &model.User{Username: "foo", Discriminator: "1234"}, want: "foo#1234"},
		{name: "legacy global", user: &model.User{Username: "foo", Discriminator: "1234", GlobalName: "F"}, want: "F (foo#1234)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.user))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("  short  ", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "...", Truncate("abcdef", 3))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 8))
}

func TestSuccess(t *testing.T) {
	out := Success("Message sent",
		Field{Key: "Message ID", Value: ID("1")},
		Field{Key: "Reply To", Value: ""},
		Field{Key: "Content", Value: strings.Repeat("x", 150)},
	)

	assert.True(t, strings.HasPrefix(out, "✅ Message sent successfully!\n- **Message ID**: `1`"))
	assert.NotContains(t, out, "Reply To")
	assert.Contains(t, out, strings.Repeat("x", 97)+"...")
}
