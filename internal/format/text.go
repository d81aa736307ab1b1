// Package format renders Discord records as markdown reports.
//
// Every function is pure: output depends only on the arguments. Missing or
// partial data is replaced by an explicit placeholder, never reported as an
// error.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/keshon/discord-ops/internal/model"
)

const (
	UnknownUser = "Unknown User"
	UnknownID   = "Unknown"
	NoContent   = "(No text content)"

	timeLayout = "2006-01-02 15:04:05 UTC"
)

// Timestamp formats t in UTC, or "Unknown time" for the zero value.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown time"
	}
	return t.UTC().Format(timeLayout)
}

// Truncate shortens s to at most max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return "..."
	}
	return string(r[:max-3]) + "..."
}

// DisplayName follows Discord's naming conventions: "Global (@user)" on the
// unique-username scheme, "Global (user#1234)" on the legacy one.
func DisplayName(u *model.User) string {
	if u == nil {
		return "@" + UnknownUser
	}

	username := u.Username
	if username == "" {
		username = UnknownUser
	}
	hasGlobal := u.GlobalName != "" && u.GlobalName != username

	if legacyDiscriminator(u.Discriminator) {
		if hasGlobal {
			return fmt.Sprintf("%s (%s#%s)", u.GlobalName, username, u.Discriminator)
		}
		return username + "#" + u.Discriminator
	}
	if hasGlobal {
		return fmt.Sprintf("%s (@%s)", u.GlobalName, username)
	}
	return "@" + username
}

func legacyDiscriminator(d string) bool {
	return d != "" && d != "0" && d != "0000"
}

// Field is one "- **Key**: value" line of a success response.
type Field struct {
	Key   string
	Value string
}

// ID renders an identifier field value.
func ID(id string) string { return "`" + id + "`" }

// Success renders a confirmation for a completed write or moderation action.
// Fields with empty values are skipped.
func Success(action string, fields ...Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s successfully!", action)
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		value := f.Value
		if len([]rune(value)) > 100 {
			value = Truncate(value, 100)
		}
		fmt.Fprintf(&b, "\n- **%s**: %s", f.Key, value)
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func plural(n int, noun string) string {
	return fmt.Sprintf("%d %s(s)", n, noun)
}
