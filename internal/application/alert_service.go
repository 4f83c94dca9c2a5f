package application

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
)

// AlertStore persists the last email address subscribed for scheme-update
// notices. Only the most recent subscription is kept.
type AlertStore interface {
	SaveAlertEmail(ctx context.Context, email string) error
	AlertEmail(ctx context.Context) (string, error)
}

// AlertService records scheme-alert subscriptions. No matching or delivery
// logic hangs off the stored address.
type AlertService struct {
	alerts AlertStore
	logger *slog.Logger
}

// NewAlertService wires dependencies for the alert service.
func NewAlertService(alerts AlertStore, logger *slog.Logger) *AlertService {
	return &AlertService{alerts: alerts, logger: defaultLogger(logger)}
}

func (s *AlertService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AlertService", operation, attrs...)
}

// Subscribe validates and stores the address, replacing any previous one.
func (s *AlertService) Subscribe(ctx context.Context, email string) error {
	if s == nil || s.alerts == nil {
		return errors.New("alert store not configured")
	}

	normalized := strings.TrimSpace(strings.ToLower(email))
	logger := s.log(ctx, "Subscribe", "email", normalized)

	vErr := &ValidationError{}
	if normalized == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(normalized); err != nil {
		vErr.add("email", "email is invalid")
	}
	if vErr.HasErrors() {
		logger.ErrorContext(ctx, "subscription rejected", "error", vErr, "error_kind", ErrorKind(vErr))
		return vErr
	}

	if err := s.alerts.SaveAlertEmail(ctx, normalized); err != nil {
		logger.ErrorContext(ctx, "failed to store subscription", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "alert subscription stored")
	return nil
}

// LastSubscribed returns the most recently stored address, or ErrNotFound
// when nothing has been subscribed yet.
func (s *AlertService) LastSubscribed(ctx context.Context) (string, error) {
	if s == nil || s.alerts == nil {
		return "", errors.New("alert store not configured")
	}
	return s.alerts.AlertEmail(ctx)
}
