// Package apierr defines the closed error taxonomy returned by the
// operations service and translates upstream failures into it.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
)

type Kind int

const (
	Unknown Kind = iota
	PermissionDenied
	HierarchyViolation
	MissingBotPermission
	OwnerImmunity
	InvalidParameter
	NotFound
	RateLimited
	UpstreamUnavailable
)

var kindNames = map[Kind]string{
	Unknown:              "Unknown",
	PermissionDenied:     "PermissionDenied",
	HierarchyViolation:   "HierarchyViolation",
	MissingBotPermission: "MissingBotPermission",
	OwnerImmunity:        "OwnerImmunity",
	InvalidParameter:     "InvalidParameter",
	NotFound:             "NotFound",
	RateLimited:          "RateLimited",
	UpstreamUnavailable:  "UpstreamUnavailable",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// StatusCoder is implemented by upstream errors that carry an HTTP status.
type StatusCoder interface {
	error
	StatusCode() int
}

// Error is the only error type the service hands to its callers.
// Message is safe to show to the end user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Text renders the error the way it is shown to the caller.
func (e *Error) Text() string { return "❌ Error: " + e.Message }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or Unknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

func Denied(resource, id string) *Error {
	return New(PermissionDenied, "Access to %s `%s` is not permitted.", resource, id)
}

func Missing(resource, id string) *Error {
	return New(NotFound, "%s `%s` was not found or bot has no access.", resource, id)
}

func Invalid(format string, args ...any) *Error {
	return New(InvalidParameter, format, args...)
}

// Translate maps an upstream failure onto the taxonomy. op describes what
// was being done, e.g. "fetching guilds".
func Translate(err error, op string) *Error {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return &Error{Kind: UpstreamUnavailable, Message: fmt.Sprintf("Could not reach Discord while %s. Please try again later.", op), Err: err}
	}

	out := &Error{Err: err}
	switch code := sc.StatusCode(); {
	case code == http.StatusNotFound:
		out.Kind = NotFound
		out.Message = fmt.Sprintf("Resource not found while %s.", op)
	case code == http.StatusForbidden:
		out.Kind = PermissionDenied
		out.Message = fmt.Sprintf("Bot does not have permission to perform this operation while %s.", op)
	case code == http.StatusTooManyRequests:
		out.Kind = RateLimited
		out.Message = fmt.Sprintf("Rate limit exceeded while %s. Please try again later.", op)
	case code == http.StatusBadRequest:
		out.Kind = Unknown
		out.Message = fmt.Sprintf("Invalid request while %s. Please check your parameters.", op)
	case code >= 500:
		out.Kind = UpstreamUnavailable
		out.Message = fmt.Sprintf("Discord is unavailable while %s (status %d). Please try again later.", op, code)
	default:
		out.Kind = Unknown
		out.Message = fmt.Sprintf("Discord API error while %s: %s", op, sc.Error())
	}
	return out
}

// Unexpected handles failures that are not upstream API errors. The detail is
// logged; the returned message does not include it.
func Unexpected(logger *zap.Logger, err error, op string) *Error {
	if logger != nil {
		logger.Error("Unexpected error", zap.String("operation", op), zap.Error(err))
	}
	return &Error{
		Kind:    Unknown,
		Message: fmt.Sprintf("Unexpected error while %s. Please try again or contact support if the issue persists.", op),
		Err:     err,
	}
}

// From routes any error to the right constructor: *Error passes through,
// upstream and network failures are translated, everything else is unexpected.
func From(logger *zap.Logger, err error, op string) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: UpstreamUnavailable, Message: fmt.Sprintf("Request cancelled or timed out while %s.", op), Err: err}
	}

	var sc StatusCoder
	var netErr net.Error
	if errors.As(err, &sc) || errors.As(err, &netErr) {
		out := Translate(err, op)
		if logger != nil {
			logger.Warn("Discord API error",
				zap.String("operation", op),
				zap.Stringer("kind", out.Kind),
				zap.Error(err),
			)
		}
		return out
	}

	return Unexpected(logger, err, op)
}
