package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/keshon/discord-ops/internal/apierr"
)

const (
	MaxContentLength = 2000
	MaxMessageLimit  = 100
	MaxReasonLength  = 512
)

var snowflake = regexp.MustCompile(`^\d{15,20}$`)

func checkID(kind, id string) *apierr.Error {
	if snowflake.MatchString(id) {
		return nil
	}
	return apierr.Invalid("Invalid %s ID `%s`. Discord IDs are 15-20 digit numbers.", kind, id)
}

// checkIDs validates kind/id pairs and reports the first bad one.
func checkIDs(pairs ...string) *apierr.Error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := checkID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func checkContent(content string) *apierr.Error {
	if strings.TrimSpace(content) == "" {
		return apierr.Invalid("Message content cannot be empty.")
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return apierr.Invalid("Message content cannot exceed %d characters. Current length: %d characters.", MaxContentLength, n)
	}
	return nil
}

// checkLimit applies def when limit is zero.
func checkLimit(limit, def int) (int, *apierr.Error) {
	if limit == 0 {
		return def, nil
	}
	if limit < 1 || limit > MaxMessageLimit {
		return 0, apierr.Invalid("Limit must be between 1 and %d.", MaxMessageLimit)
	}
	return limit, nil
}

func checkReason(reason string) *apierr.Error {
	if n := utf8.RuneCountInString(reason); n > MaxReasonLength {
		return apierr.Invalid("Reason cannot exceed %d characters. Current length: %d characters.", MaxReasonLength, n)
	}
	return nil
}
