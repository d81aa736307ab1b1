package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/keshon/discord-ops/internal/apierr"
	"github.com/keshon/discord-ops/internal/service"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type messageBody struct {
	Content string `json:"content"`
	ReplyTo string `json:"reply_to"`
}

type moderationBody struct {
	Reason            string `json:"reason"`
	DurationMinutes   int    `json:"duration_minutes"`
	DeleteMessageDays int    `json:"delete_message_days"`
}

// StatusOf maps an error kind onto an HTTP status.
func StatusOf(err error) int {
	switch apierr.KindOf(err) {
	case apierr.PermissionDenied, apierr.HierarchyViolation, apierr.MissingBotPermission, apierr.OwnerImmunity:
		return http.StatusForbidden
	case apierr.InvalidParameter:
		return http.StatusBadRequest
	case apierr.NotFound:
		return http.StatusNotFound
	case apierr.RateLimited:
		return http.StatusTooManyRequests
	case apierr.UpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) respond(w http.ResponseWriter, report string, err error) {
	status := http.StatusOK
	if err != nil {
		status = StatusOf(err)
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(status)
	if _, werr := io.WriteString(w, service.Text(report, err)); werr != nil {
		h.logger.Debug("Writing response failed", zap.Error(werr))
	}
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apierr.Invalid("Malformed request body: %s.", err.Error())
	}
	return nil
}

// limitParam parses the optional limit query parameter; absent means zero.
func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.Invalid("Limit must be an integer, got `%s`.", raw)
	}
	return n, nil
}

func (h *handlers) listGuilds(w http.ResponseWriter, r *http.Request) {
	report, err := h.ops.ListGuilds(r.Context())
	h.respond(w, report, err)
}

func (h *handlers) listChannels(w http.ResponseWriter, r *http.Request) {
	report, err := h.ops.ListChannels(r.Context(), chi.URLParam(r, "guildID"))
	h.respond(w, report, err)
}

func (h *handlers) listMessages(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		h.respond(w, "", err)
		return
	}
	report, err := h.ops.ListMessages(r.Context(), chi.URLParam(r, "channelID"), limit)
	h.respond(w, report, err)
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	report, err := h.ops.GetUser(r.Context(), chi.URLParam(r, "userID"))
	h.respond(w, report, err)
}

func (h *handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var body messageBody
	if err := decode(r, &body); err != nil {
		h.respond(w, "", err)
		return
	}
	report, err := h.ops.SendMessage(r.Context(), chi.URLParam(r, "channelID"), body.Content, body.ReplyTo)
	h.respond(w, report, err)
}

func (h *handlers) editMessage(w http.ResponseWriter, r *http.Request) {
	var body messageBody
	if err := decode(r, &body); err != nil {
		h.respond(w, "", err)
		return
	}
	report, err := h.ops.EditMessage(r.Context(), chi.URLParam(r, "channelID"), chi.URLParam(r, "messageID"), body.Content)
	h.respond(w, report, err)
}

func (h *handlers) deleteMessage(w http.ResponseWriter, r *http.Request) {
	report, err := h.ops.DeleteMessage(r.Context(), chi.URLParam(r, "channelID"), chi.URLParam(r, "messageID"))
	h.respond(w, report, err)
}

func (h *handlers) sendDM(w http.ResponseWriter, r *http.Request) {
	var body messageBody
	if err := decode(r, &body); err != nil {
		h.respond(w, "", err)
		return
	}
	report, err := h.ops.SendDirectMessage(r.Context(), chi.URLParam(r, "userID"), body.Content)
	h.respond(w, report, err)
}

func (h *handlers) readDMs(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		h.respond(w, "", err)
		return
	}
	report, err := h.ops.ReadDirectMessages(r.Context(), chi.URLParam(r, "userID"), limit)
	h.respond(w, report, err)
}

func (h *handlers) timeout(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, func(g, u string, b moderationBody) (string, error) {
		return h.ops.TimeoutUser(r.Context(), g, u, b.DurationMinutes, b.Reason)
	})
}

func (h *handlers) untimeout(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, func(g, u string, b moderationBody) (string, error) {
		return h.ops.UntimeoutUser(r.Context(), g, u, b.Reason)
	})
}

func (h *handlers) kick(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, func(g, u string, b moderationBody) (string, error) {
		return h.ops.KickUser(r.Context(), g, u, b.Reason)
	})
}

func (h *handlers) ban(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, func(g, u string, b moderationBody) (string, error) {
		return h.ops.BanUser(r.Context(), g, u, b.Reason, b.DeleteMessageDays)
	})
}

func (h *handlers) moderate(w http.ResponseWriter, r *http.Request, run func(guildID, userID string, b moderationBody) (string, error)) {
	var body moderationBody
	if err := decode(r, &body); err != nil {
		h.respond(w, "", err)
		return
	}
	report, err := run(chi.URLParam(r, "guildID"), chi.URLParam(r, "userID"), body)
	h.respond(w, report, err)
}
