package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/example/scheme-discovery/internal/persistence"
)

// AlertStore implements persistence.AlertStore over the alertEmail slot: a
// plain string holding the last subscribed address.
type AlertStore struct {
	pool   *ConnectionPool
	logger *slog.Logger
}

// NewAlertStore creates an alert store backed by the connection pool.
func NewAlertStore(pool *ConnectionPool, logger *slog.Logger) *AlertStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertStore{pool: pool, logger: logger}
}

// SaveAlertEmail stores the address, replacing any previous subscription.
func (s *AlertStore) SaveAlertEmail(ctx context.Context, email string) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return writeSlot(ctx, tx, slotAlertEmail, email)
	})
}

// AlertEmail returns the stored address, or ErrNotFound when none exists.
func (s *AlertStore) AlertEmail(ctx context.Context) (string, error) {
	email, ok, err := readSlot(ctx, s.pool.db, slotAlertEmail)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", persistence.ErrNotFound
	}
	return email, nil
}
