package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/scheme-discovery/internal/persistence/sqlite"
)

// SQLiteHarness provides store access backed by a temporary SQLite database
// for integration-style persistence tests.
type SQLiteHarness struct {
	Pool        *sqlite.ConnectionPool
	Credentials *sqlite.CredentialStore
	Identities  *sqlite.IdentityStore
	Alerts      *sqlite.AlertStore

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "schemes.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:        pool,
		Credentials: sqlite.NewCredentialStore(pool, nil),
		Identities:  sqlite.NewIdentityStore(pool, nil),
		Alerts:      sqlite.NewAlertStore(pool, nil),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
