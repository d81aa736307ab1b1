package access

import (
	"strings"

	"github.com/keshon/discord-ops/internal/model"
)

// Gate enforces the operator's guild and channel allow-lists.
// An empty list allows everything; a non-empty list denies anything not on it.
type Gate struct {
	guilds   map[string]struct{}
	channels map[string]struct{}
}

// NewGate builds a gate from the configured allow-lists; blank entries are ignored.
func NewGate(guilds, channels []string) *Gate {
	return &Gate{
		guilds:   toSet(guilds),
		channels: toSet(channels),
	}
}

// GuildAllowed reports whether guildID passes the guild allow-list.
func (g *Gate) GuildAllowed(guildID string) bool {
	return allowed(g.guildSet(), guildID)
}

// ChannelAllowed reports whether channelID passes the channel allow-list.
func (g *Gate) ChannelAllowed(channelID string) bool {
	return allowed(g.channelSet(), channelID)
}

// Restricted reports whether either allow-list is configured.
func (g *Gate) Restricted() bool {
	return len(g.guildSet()) > 0 || len(g.channelSet()) > 0
}

// FilterGuilds keeps the guilds that pass the guild allow-list.
func (g *Gate) FilterGuilds(guilds []model.Guild) []model.Guild {
	if len(g.guildSet()) == 0 {
		return guilds
	}
	out := make([]model.Guild, 0, len(guilds))
	for _, guild := range guilds {
		if g.GuildAllowed(guild.ID) {
			out = append(out, guild)
		}
	}
	return out
}

// FilterChannels keeps the channels that pass the channel allow-list.
func (g *Gate) FilterChannels(channels []model.Channel) []model.Channel {
	if len(g.channelSet()) == 0 {
		return channels
	}
	out := make([]model.Channel, 0, len(channels))
	for _, ch := range channels {
		if g.ChannelAllowed(ch.ID) {
			out = append(out, ch)
		}
	}
	return out
}

// nil-safe accessors: a nil *Gate behaves as an unconfigured gate.
func (g *Gate) guildSet() map[string]struct{} {
	if g == nil {
		return nil
	}
	return g.guilds
}

func (g *Gate) channelSet() map[string]struct{} {
	if g == nil {
		return nil
	}
	return g.channels
}

func allowed(set map[string]struct{}, id string) bool {
	if len(set) == 0 {
		return true
	}
	_, ok := set[id]
	return ok
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
