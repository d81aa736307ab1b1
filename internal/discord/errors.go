package discord

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/discord-ops/pkg/ratelimit"
)

// Error is an upstream failure that carries the HTTP status Discord answered
// with. It satisfies apierr.StatusCoder.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("discord: HTTP %d", e.Status)
	}
	return fmt.Sprintf("discord: HTTP %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) StatusCode() int { return e.Status }

// wrap converts discordgo failures into *Error. Anything without a status
// (transport and context errors) is returned unchanged.
func wrap(err error) error {
	if err == nil {
		return nil
	}

	var rest *discordgo.RESTError
	if errors.As(err, &rest) {
		out := &Error{Err: err}
		if rest.Response != nil {
			out.Status = rest.Response.StatusCode
		}
		switch {
		case rest.Message != nil && rest.Message.Message != "":
			out.Message = rest.Message.Message
		case len(rest.ResponseBody) > 0:
			out.Message = string(rest.ResponseBody)
		}
		return out
	}

	var limited *discordgo.RateLimitError
	if errors.As(err, &limited) {
		out := &Error{Status: http.StatusTooManyRequests, Err: err}
		if limited.RateLimit != nil && limited.TooManyRequests != nil {
			out.Message = limited.TooManyRequests.Message
		}
		return out
	}

	// discordgo reports an exhausted 502 retry loop as a plain error.
	if strings.HasPrefix(err.Error(), "Exceeded Max retries HTTP 502") {
		return &Error{Status: http.StatusBadGateway, Message: "Bad Gateway", Err: err}
	}

	if errors.Is(err, ratelimit.ErrBudgetExceeded) {
		return &Error{Status: http.StatusTooManyRequests, Message: "request budget exhausted", Err: err}
	}

	return err
}
