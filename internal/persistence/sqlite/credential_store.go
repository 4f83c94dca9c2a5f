package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/example/scheme-discovery/internal/persistence"
)

// CredentialStore implements persistence.CredentialStore over the
// registeredUsers slot: one JSON array holding every account, rewritten in
// full on each mutation inside a single transaction.
type CredentialStore struct {
	pool   *ConnectionPool
	logger *slog.Logger
}

// NewCredentialStore creates a credential store backed by the connection pool.
func NewCredentialStore(pool *ConnectionPool, logger *slog.Logger) *CredentialStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{pool: pool, logger: logger}
}

// ListAccounts returns the full stored collection. A missing slot or
// unparseable JSON reads as an empty collection; parse failures are logged,
// never surfaced.
func (s *CredentialStore) ListAccounts(ctx context.Context) ([]persistence.Account, error) {
	raw, ok, err := readSlot(ctx, s.pool.db, slotRegisteredUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []persistence.Account{}, nil
	}
	return s.decodeAccounts(ctx, raw), nil
}

// FindByUsername returns the account with the exact username.
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (persistence.Account, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return persistence.Account{}, err
	}
	for _, account := range accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return persistence.Account{}, persistence.ErrNotFound
}

// UsernameExists reports whether the exact, case-sensitive username is taken.
func (s *CredentialStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddAccount appends the account and rewrites the whole collection. The
// uniqueness check and the rewrite share one transaction so no other
// read-modify-write can interleave.
func (s *CredentialStore) AddAccount(ctx context.Context, account persistence.Account) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		accounts, err := s.loadForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		for _, existing := range accounts {
			if existing.Username == account.Username {
				return persistence.ErrDuplicate
			}
		}

		accounts = append(accounts, account)
		return s.storeAll(ctx, tx, accounts)
	})
}

// UpdateAccount replaces the stored record with matching id and username and
// rewrites the collection.
func (s *CredentialStore) UpdateAccount(ctx context.Context, account persistence.Account) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		accounts, err := s.loadForUpdate(ctx, tx)
		if err != nil {
			return err
		}

		for i, existing := range accounts {
			if existing.ID == account.ID && existing.Username == account.Username {
				accounts[i] = account
				return s.storeAll(ctx, tx, accounts)
			}
		}
		return persistence.ErrNotFound
	})
}

func (s *CredentialStore) loadForUpdate(ctx context.Context, tx *sql.Tx) ([]persistence.Account, error) {
	raw, ok, err := readSlot(ctx, tx, slotRegisteredUsers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []persistence.Account{}, nil
	}
	return s.decodeAccounts(ctx, raw), nil
}

func (s *CredentialStore) storeAll(ctx context.Context, tx *sql.Tx, accounts []persistence.Account) error {
	encoded, err := json.Marshal(accounts)
	if err != nil {
		return mapStoreError(err)
	}
	return writeSlot(ctx, tx, slotRegisteredUsers, string(encoded))
}

func (s *CredentialStore) decodeAccounts(ctx context.Context, raw string) []persistence.Account {
	var accounts []persistence.Account
	if err := json.Unmarshal([]byte(raw), &accounts); err != nil {
		s.logger.WarnContext(ctx, "stored account collection is malformed, treating as empty",
			"key", slotRegisteredUsers, "error", err)
		return []persistence.Account{}
	}
	if accounts == nil {
		return []persistence.Account{}
	}
	return accounts
}
