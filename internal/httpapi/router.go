// Package httpapi exposes the operations service over HTTP. Every response
// body is the markdown report (or error text) the service produced.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// Operations is the subset of *service.Service the transport calls.
type Operations interface {
	ListGuilds(ctx context.Context) (string, error)
	ListChannels(ctx context.Context, guildID string) (string, error)
	ListMessages(ctx context.Context, channelID string, limit int) (string, error)
	GetUser(ctx context.Context, userID string) (string, error)
	SendMessage(ctx context.Context, channelID, content, replyTo string) (string, error)
	EditMessage(ctx context.Context, channelID, messageID, content string) (string, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) (string, error)
	SendDirectMessage(ctx context.Context, userID, content string) (string, error)
	ReadDirectMessages(ctx context.Context, userID string, limit int) (string, error)
	TimeoutUser(ctx context.Context, guildID, userID string, minutes int, reason string) (string, error)
	UntimeoutUser(ctx context.Context, guildID, userID, reason string) (string, error)
	KickUser(ctx context.Context, guildID, userID, reason string) (string, error)
	BanUser(ctx context.Context, guildID, userID, reason string, deleteDays int) (string, error)
}

type handlers struct {
	ops    Operations
	logger *zap.Logger
}

func NewRouter(ops Operations, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &handlers{ops: ops, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health-check", healthCheckHandler)

	r.Get("/guilds", h.listGuilds)
	r.Get("/guilds/{guildID}/channels", h.listChannels)
	r.Route("/guilds/{guildID}/members/{userID}", func(r chi.Router) {
		r.Post("/timeout", h.timeout)
		r.Post("/untimeout", h.untimeout)
		r.Post("/kick", h.kick)
		r.Post("/ban", h.ban)
	})

	r.Route("/channels/{channelID}/messages", func(r chi.Router) {
		r.Get("/", h.listMessages)
		r.Post("/", h.sendMessage)
		r.Patch("/{messageID}", h.editMessage)
		r.Delete("/{messageID}", h.deleteMessage)
	})

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/", h.getUser)
		r.Get("/dm", h.readDMs)
		r.Post("/dm", h.sendDM)
	})

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusOK), http.StatusOK)
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
