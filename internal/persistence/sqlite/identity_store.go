package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/example/scheme-discovery/internal/persistence"
)

// IdentityStore implements persistence.IdentityStore over the currentUser
// slot: a single JSON object, present while a session is active.
type IdentityStore struct {
	pool   *ConnectionPool
	logger *slog.Logger
}

// NewIdentityStore creates an identity store backed by the connection pool.
func NewIdentityStore(pool *ConnectionPool, logger *slog.Logger) *IdentityStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityStore{pool: pool, logger: logger}
}

// SaveCurrent persists the identity snapshot, replacing any previous one.
func (s *IdentityStore) SaveCurrent(ctx context.Context, identity persistence.Identity) error {
	encoded, err := json.Marshal(identity)
	if err != nil {
		return mapStoreError(err)
	}
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return writeSlot(ctx, tx, slotCurrentUser, string(encoded))
	})
}

// Current returns the persisted identity. A missing or malformed slot reads
// as logged out.
func (s *IdentityStore) Current(ctx context.Context) (persistence.Identity, error) {
	raw, ok, err := readSlot(ctx, s.pool.db, slotCurrentUser)
	if err != nil {
		return persistence.Identity{}, err
	}
	if !ok {
		return persistence.Identity{}, persistence.ErrNotFound
	}

	var identity persistence.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.WarnContext(ctx, "stored identity is malformed, treating as logged out",
			"key", slotCurrentUser, "error", err)
		return persistence.Identity{}, persistence.ErrNotFound
	}
	return identity, nil
}

// Clear removes the identity slot. Clearing an absent slot succeeds.
func (s *IdentityStore) Clear(ctx context.Context) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return deleteSlot(ctx, tx, slotCurrentUser)
	})
}
