// Package service is the operations facade exposed to the transport layer.
//
// Each method runs one logical Discord operation: it applies the allow-list
// gate, validates moderation requests, calls the Discord API and renders the
// result as text. Methods return the report on success and an *apierr.Error
// otherwise; no other error type leaves the package.
package service

import (
	"errors"
	"time"

	"github.com/keshon/discord-ops/internal/access"
	"github.com/keshon/discord-ops/internal/apierr"
	"github.com/keshon/discord-ops/internal/discord"
	"go.uber.org/zap"
)

const (
	DefaultChannelMessageLimit = 50
	DefaultDMMessageLimit      = 10

	// guildDetailWorkers bounds concurrent detail lookups in ListGuilds.
	guildDetailWorkers = 4
)

// Service holds the collaborators shared by every request. It has no mutable
// state of its own and is safe for concurrent use.
type Service struct {
	api    discord.API
	gate   *access.Gate
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for timeout expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(api discord.API, gate *access.Gate, logger *zap.Logger, opts ...Option) *Service {
	if gate == nil {
		gate = access.NewGate(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		api:    api,
		gate:   gate,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Text turns a method's result into the string shown to the caller.
func Text(report string, err error) string {
	if err == nil {
		return report
	}
	var e *apierr.Error
	if errors.As(err, &e) {
		return e.Text()
	}
	return (&apierr.Error{Message: "Unexpected error. Please try again or contact support if the issue persists."}).Text()
}

// start logs the beginning of an operation and returns a logger carrying
// its fields.
func (s *Service) start(op string, fields ...zap.Field) *zap.Logger {
	log := s.logger.With(append([]zap.Field{zap.String("operation", op)}, fields...)...)
	log.Info("Starting operation")
	return log
}

// fail converts err into the taxonomy and logs the outcome. A non-empty
// resource turns a 404 into a message naming the missing object.
func fail(log *zap.Logger, err error, op, resource, id string) error {
	out := apierr.From(log, err, op)
	if out.Kind == apierr.NotFound && resource != "" {
		missing := apierr.Missing(resource, id)
		missing.Err = err
		out = missing
	}
	switch out.Kind {
	case apierr.PermissionDenied, apierr.InvalidParameter, apierr.NotFound:
		log.Warn("Operation rejected", zap.Stringer("kind", out.Kind), zap.String("reason", out.Message))
	default:
		log.Error("Operation failed", zap.Stringer("kind", out.Kind), zap.String("reason", out.Message))
	}
	return out
}

// reject logs a structural rejection and returns it unchanged.
func reject(log *zap.Logger, err *apierr.Error) error {
	log.Warn("Operation rejected", zap.Stringer("kind", err.Kind), zap.String("reason", err.Message))
	return err
}

func done(log *zap.Logger, fields ...zap.Field) {
	log.Info("Operation completed", fields...)
}

// guildGate rejects a channel whose guild is not on the guild allow-list.
// Direct-message channels carry no guild and pass.
func (s *Service) guildGate(log *zap.Logger, guildID, channelID string) error {
	if guildID == "" || s.gate.GuildAllowed(guildID) {
		return nil
	}
	err := apierr.Denied("guild", guildID)
	err.Message += " Access required for channel `" + channelID + "`."
	return reject(log, err)
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
