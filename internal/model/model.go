// Package model holds the typed records exchanged between the Discord client
// and the operations service. Records are per-request snapshots; nothing
// here is cached or shared between calls.
package model

import "time"

type Guild struct {
	ID                     string
	Name                   string
	OwnerID                string
	Owner                  bool
	ApproximateMemberCount int
	Description            string
	Features               []string
	Permissions            int64
}

type Channel struct {
	ID       string
	GuildID  string
	Name     string
	Type     int
	Topic    string
	Position int
	ParentID string
	NSFW     bool
}

type Attachment struct {
	ID       string
	Filename string
}

type Message struct {
	ID          string
	ChannelID   string
	Content     string
	Author      *User
	Timestamp   time.Time
	Attachments []Attachment
	Embeds      int
	Reactions   int
}

// User is a platform account. Discriminator "0" marks an account on the
// unique-username scheme.
type User struct {
	ID            string
	Username      string
	Discriminator string
	GlobalName    string
	Bot           bool
	System        bool
	Avatar        string
	Banner        string
	AccentColor   int
	PublicFlags   int
}

type Member struct {
	User  *User
	Roles []string
}

type Role struct {
	ID          string
	Name        string
	Position    int
	Permissions int64
}
