package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/scheme-discovery/internal/application"
)

type sessionService interface {
	Login(ctx context.Context, params application.LoginParams) (application.Session, error)
	Register(ctx context.Context, params application.RegisterParams) (application.Session, error)
	Logout(ctx context.Context)
	Current() (application.Session, bool)
}

type SessionHandler struct {
	service   sessionService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

// Login authenticates a username/password pair and activates the session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Login", "username", req.Username)

	session, err := h.service.Login(r.Context(), application.LoginParams{
		Username:       req.Username,
		Password:       req.Password,
		RememberDevice: req.RememberMe,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "login rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("account_id", session.Account.ID).InfoContext(r.Context(), "user logged in")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, newSessionResponse(session))
}

// Register creates an account and logs it in.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "username", req.Username)

	session, err := h.service.Register(r.Context(), application.RegisterParams{
		Name:            req.Name,
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		BusinessType:    req.BusinessType,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("account_id", session.Account.ID).InfoContext(r.Context(), "account registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, newSessionResponse(session))
}

// Logout clears the active session. It succeeds even when nobody is logged in.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.service.Logout(r.Context())
	h.log(r.Context(), "Logout").InfoContext(r.Context(), "session cleared")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Current reports the active session, or 404 when the portal is anonymous.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	session, ok := h.service.Current()
	if !ok {
		h.responder.writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: "No active session."})
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, newSessionResponse(session))
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	BusinessType    string `json:"businessType"`
}

type accountDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	BusinessType   string `json:"businessType,omitempty"`
	RegisteredDate string `json:"registeredDate"`
	LastLogin      string `json:"lastLogin"`
}

type sessionResponse struct {
	SessionID string     `json:"sessionId"`
	StartedAt string     `json:"startedAt"`
	Account   accountDTO `json:"account"`
}

func newSessionResponse(session application.Session) sessionResponse {
	return sessionResponse{
		SessionID: session.ID,
		StartedAt: session.StartedAt.UTC().Format(time.RFC3339),
		Account: accountDTO{
			ID:             session.Account.ID,
			Name:           session.Account.Name,
			Email:          session.Account.Email,
			Username:       session.Account.Username,
			BusinessType:   session.Account.BusinessType,
			RegisteredDate: session.Account.RegisteredAt.UTC().Format(time.RFC3339),
			LastLogin:      session.Account.LastLogin.UTC().Format(time.RFC3339),
		},
	}
}
