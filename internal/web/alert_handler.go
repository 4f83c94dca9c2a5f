package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/scheme-discovery/internal/application"
)

type alertService interface {
	Subscribe(ctx context.Context, email string) error
	LastSubscribed(ctx context.Context) (string, error)
}

type AlertHandler struct {
	service   alertService
	responder responder
	logger    *slog.Logger
}

func NewAlertHandler(service alertService, logger *slog.Logger) *AlertHandler {
	base := defaultLogger(logger)
	return &AlertHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *AlertHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AlertHandler", operation, attrs...)
}

// Subscribe records an email address for scheme-update notices, replacing any
// previous subscription.
func (h *AlertHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req alertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Subscribe", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode alert request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.Subscribe(r.Context(), req.Email); err != nil {
		h.log(r.Context(), "Subscribe").ErrorContext(r.Context(), "subscription rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, alertResponse{Email: req.Email})
}

// LastSubscribed reports the most recently stored address.
func (h *AlertHandler) LastSubscribed(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	email, err := h.service.LastSubscribed(r.Context())
	if err != nil {
		h.log(r.Context(), "LastSubscribed").ErrorContext(r.Context(), "subscription lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, alertResponse{Email: email})
}

type alertRequest struct {
	Email string `json:"email"`
}

type alertResponse struct {
	Email string `json:"email"`
}
