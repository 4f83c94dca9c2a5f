package testfixtures

import (
	"context"
	"errors"
	"sync"

	"github.com/example/scheme-discovery/internal/application"
)

// MemoryCredentialStore is an in-memory application.CredentialStore for
// service tests. Errors can be injected via FailWith to exercise storage
// failure paths.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	accounts []application.AccountCredentials
	failWith error
}

// NewMemoryCredentialStore returns a store seeded with the given credentials.
func NewMemoryCredentialStore(seed ...application.AccountCredentials) *MemoryCredentialStore {
	return &MemoryCredentialStore{accounts: append([]application.AccountCredentials(nil), seed...)}
}

// FailWith makes every subsequent call return err. Pass nil to clear.
func (s *MemoryCredentialStore) FailWith(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

// ListAccounts returns a copy of the stored collection.
func (s *MemoryCredentialStore) ListAccounts(_ context.Context) ([]application.AccountCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]application.AccountCredentials(nil), s.accounts...), nil
}

// FindByUsername returns the credentials with the exact username.
func (s *MemoryCredentialStore) FindByUsername(_ context.Context, username string) (application.AccountCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return application.AccountCredentials{}, s.failWith
	}
	for _, creds := range s.accounts {
		if creds.Account.Username == username {
			return creds, nil
		}
	}
	return application.AccountCredentials{}, application.ErrNotFound
}

// UsernameExists reports whether the exact username is taken.
func (s *MemoryCredentialStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddAccount appends the credentials, rejecting duplicate usernames.
func (s *MemoryCredentialStore) AddAccount(_ context.Context, creds application.AccountCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, existing := range s.accounts {
		if existing.Account.Username == creds.Account.Username {
			return application.ErrUsernameTaken
		}
	}
	s.accounts = append(s.accounts, creds)
	return nil
}

// UpdateAccount replaces the stored credentials with matching id and username.
func (s *MemoryCredentialStore) UpdateAccount(_ context.Context, creds application.AccountCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for i, existing := range s.accounts {
		if existing.Account.ID == creds.Account.ID && existing.Account.Username == creds.Account.Username {
			s.accounts[i] = creds
			return nil
		}
	}
	return application.ErrNotFound
}

// Stored returns a copy of the current collection for assertions.
func (s *MemoryCredentialStore) Stored() []application.AccountCredentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]application.AccountCredentials(nil), s.accounts...)
}

// MemoryIdentityStore is an in-memory application.IdentityStore.
type MemoryIdentityStore struct {
	mu       sync.Mutex
	current  *application.Account
	failWith error
}

// NewMemoryIdentityStore returns an empty identity store.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

// FailWith makes every subsequent call return err. Pass nil to clear.
func (s *MemoryIdentityStore) FailWith(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

// Seed places an account in the slot without going through SaveCurrent.
func (s *MemoryIdentityStore) Seed(account application.Account) {
	s.mu.Lock()
	s.current = &account
	s.mu.Unlock()
}

// SaveCurrent stores the account as the current identity.
func (s *MemoryIdentityStore) SaveCurrent(_ context.Context, account application.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.current = &account
	return nil
}

// Current returns the stored identity, or ErrNotFound when the slot is empty.
func (s *MemoryIdentityStore) Current(_ context.Context) (application.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return application.Account{}, s.failWith
	}
	if s.current == nil {
		return application.Account{}, application.ErrNotFound
	}
	return *s.current, nil
}

// Clear empties the slot. Clearing an empty slot succeeds.
func (s *MemoryIdentityStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.current = nil
	return nil
}

// MemoryAlertStore is an in-memory application.AlertStore.
type MemoryAlertStore struct {
	mu       sync.Mutex
	email    string
	set      bool
	failWith error
}

// NewMemoryAlertStore returns an empty alert store.
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{}
}

// FailWith makes every subsequent call return err. Pass nil to clear.
func (s *MemoryAlertStore) FailWith(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

// SaveAlertEmail stores the address, replacing any previous one.
func (s *MemoryAlertStore) SaveAlertEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.email = email
	s.set = true
	return nil
}

// AlertEmail returns the stored address, or ErrNotFound when none exists.
func (s *MemoryAlertStore) AlertEmail(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", s.failWith
	}
	if !s.set {
		return "", application.ErrNotFound
	}
	return s.email, nil
}
