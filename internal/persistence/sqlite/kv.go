package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Fixed logical keys of the local state table. The values under them are the
// JSON documents the portal persists: the account collection, the current
// identity marker, and the last alert subscription.
const (
	slotRegisteredUsers = "registeredUsers"
	slotCurrentUser     = "currentUser"
	slotAlertEmail      = "alertEmail"
)

// readSlot returns the raw JSON stored under key. The boolean reports whether
// the slot exists at all.
func readSlot(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM local_state WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, mapStoreError(err)
	}
	return value, true, nil
}

// writeSlot upserts the raw JSON stored under key.
func writeSlot(ctx context.Context, e interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, key, value string) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO local_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return mapStoreError(err)
	}
	return nil
}

// deleteSlot removes the slot entirely. Deleting an absent slot is a no-op.
func deleteSlot(ctx context.Context, e interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, key string) error {
	if _, err := e.ExecContext(ctx, `DELETE FROM local_state WHERE key = ?`, key); err != nil {
		return mapStoreError(err)
	}
	return nil
}
