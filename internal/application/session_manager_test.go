package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type credentialStoreStub struct {
	accounts []AccountCredentials
	failWith error

	updateCalls []AccountCredentials
	addCalls    []AccountCredentials
}

func (s *credentialStoreStub) ListAccounts(context.Context) ([]AccountCredentials, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return append([]AccountCredentials(nil), s.accounts...), nil
}

func (s *credentialStoreStub) FindByUsername(_ context.Context, username string) (AccountCredentials, error) {
	if s.failWith != nil {
		return AccountCredentials{}, s.failWith
	}
	for _, creds := range s.accounts {
		if creds.Account.Username == username {
			return creds, nil
		}
	}
	return AccountCredentials{}, ErrNotFound
}

func (s *credentialStoreStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *credentialStoreStub) AddAccount(_ context.Context, creds AccountCredentials) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.addCalls = append(s.addCalls, creds)
	for _, existing := range s.accounts {
		if existing.Account.Username == creds.Account.Username {
			return ErrUsernameTaken
		}
	}
	s.accounts = append(s.accounts, creds)
	return nil
}

func (s *credentialStoreStub) UpdateAccount(_ context.Context, creds AccountCredentials) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.updateCalls = append(s.updateCalls, creds)
	for i, existing := range s.accounts {
		if existing.Account.ID == creds.Account.ID && existing.Account.Username == creds.Account.Username {
			s.accounts[i] = creds
			return nil
		}
	}
	return ErrNotFound
}

type identityStoreStub struct {
	current  *Account
	failWith error

	saveCalls  int
	clearCalls int
}

func (s *identityStoreStub) SaveCurrent(_ context.Context, account Account) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.saveCalls++
	s.current = &account
	return nil
}

func (s *identityStoreStub) Current(context.Context) (Account, error) {
	if s.failWith != nil {
		return Account{}, s.failWith
	}
	if s.current == nil {
		return Account{}, ErrNotFound
	}
	return *s.current, nil
}

func (s *identityStoreStub) Clear(context.Context) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.clearCalls++
	s.current = nil
	return nil
}

func fakeHash(password string) (string, error) {
	return "digest:" + password, nil
}

func fakeVerify(digest, password string) error {
	if digest == "digest:"+password {
		return nil
	}
	return ErrInvalidCredentials
}

func newTestManager(creds *credentialStoreStub, identities *identityStoreStub, now time.Time) *SessionManager {
	ids := 0
	return NewSessionManager(creds, identities, fakeHash, fakeVerify,
		func() string { ids++; return fmt.Sprintf("account-%d", ids) },
		func() string { return "session-1" },
		func() time.Time { return now },
		nil,
	)
}

func storedAccount(username, password string) AccountCredentials {
	return AccountCredentials{
		Account: Account{
			ID:           "account-9",
			Name:         "Asha Traders",
			Email:        "asha@example.com",
			Username:     username,
			BusinessType: "trading",
			RegisteredAt: time.Date(2025, time.January, 5, 10, 0, 0, 0, time.UTC),
			LastLogin:    time.Date(2025, time.January, 5, 10, 0, 0, 0, time.UTC),
		},
		PasswordDigest: "digest:" + password,
	}
}

func TestSessionManager_Login(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	t.Run("authenticates a known account", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{accounts: []AccountCredentials{storedAccount("asha", "secret")}}
		identities := &identityStoreStub{}
		mgr := newTestManager(creds, identities, now)

		session, err := mgr.Login(context.Background(), LoginParams{Username: "asha", Password: "secret"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if session.Account.Username != "asha" {
			t.Fatalf("unexpected account on session: %#v", session.Account)
		}
		if !session.Account.LastLogin.Equal(now) {
			t.Fatalf("expected LastLogin refreshed to %v, got %v", now, session.Account.LastLogin)
		}
		if session.ID != "session-1" {
			t.Fatalf("expected generated session id, got %q", session.ID)
		}
		if identities.saveCalls != 1 || identities.current == nil || identities.current.Username != "asha" {
			t.Fatalf("expected identity slot to hold the account, got %#v", identities.current)
		}

		current, ok := mgr.Current()
		if !ok || current.Account.Username != "asha" {
			t.Fatalf("expected active session, got ok=%v session=%#v", ok, current)
		}
	})

	t.Run("unknown username and wrong password are indistinguishable", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{accounts: []AccountCredentials{storedAccount("asha", "secret")}}
		mgr := newTestManager(creds, &identityStoreStub{}, now)

		_, unknownErr := mgr.Login(context.Background(), LoginParams{Username: "nobody", Password: "secret"})
		_, wrongErr := mgr.Login(context.Background(), LoginParams{Username: "asha", Password: "wrong"})

		if !errors.Is(unknownErr, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", unknownErr)
		}
		if !errors.Is(wrongErr, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongErr)
		}
		if _, ok := mgr.Current(); ok {
			t.Fatal("expected no session after failed logins")
		}
	})

	t.Run("remember device persists the refreshed last login", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{accounts: []AccountCredentials{storedAccount("asha", "secret")}}
		mgr := newTestManager(creds, &identityStoreStub{}, now)

		if _, err := mgr.Login(context.Background(), LoginParams{Username: "asha", Password: "secret", RememberDevice: true}); err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if len(creds.updateCalls) != 1 {
			t.Fatalf("expected one credential update, got %d", len(creds.updateCalls))
		}
		if !creds.accounts[0].Account.LastLogin.Equal(now) {
			t.Fatalf("expected stored LastLogin %v, got %v", now, creds.accounts[0].Account.LastLogin)
		}
	})

	t.Run("without remember device the store is untouched", func(t *testing.T) {
		t.Parallel()

		original := storedAccount("asha", "secret")
		creds := &credentialStoreStub{accounts: []AccountCredentials{original}}
		mgr := newTestManager(creds, &identityStoreStub{}, now)

		session, err := mgr.Login(context.Background(), LoginParams{Username: "asha", Password: "secret"})
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if len(creds.updateCalls) != 0 {
			t.Fatalf("expected no credential updates, got %d", len(creds.updateCalls))
		}
		// The session still sees the fresh timestamp.
		if !session.Account.LastLogin.Equal(now) {
			t.Fatalf("expected session LastLogin %v, got %v", now, session.Account.LastLogin)
		}
		if !creds.accounts[0].Account.LastLogin.Equal(original.Account.LastLogin) {
			t.Fatalf("expected stored LastLogin unchanged, got %v", creds.accounts[0].Account.LastLogin)
		}
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{failWith: ErrStorageUnavailable}
		mgr := newTestManager(creds, &identityStoreStub{}, now)

		_, err := mgr.Login(context.Background(), LoginParams{Username: "asha", Password: "secret"})
		if !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}

func TestSessionManager_Register(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	validParams := func() RegisterParams {
		return RegisterParams{
			Name:            "Asha Traders",
			Email:           "Asha@Example.com",
			Username:        "asha",
			Password:        "secret",
			ConfirmPassword: "secret",
			BusinessType:    "trading",
		}
	}

	t.Run("creates the account and logs it in", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{}
		identities := &identityStoreStub{}
		mgr := newTestManager(creds, identities, now)

		session, err := mgr.Register(context.Background(), validParams())
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if session.Account.ID != "account-1" {
			t.Fatalf("expected generated account id, got %q", session.Account.ID)
		}
		if session.Account.Email != "asha@example.com" {
			t.Fatalf("expected normalised email, got %q", session.Account.Email)
		}
		if !session.Account.RegisteredAt.Equal(now) || !session.Account.LastLogin.Equal(now) {
			t.Fatalf("expected both timestamps set to %v, got %#v", now, session.Account)
		}

		if len(creds.accounts) != 1 {
			t.Fatalf("expected one stored account, got %d", len(creds.accounts))
		}
		if creds.accounts[0].PasswordDigest != "digest:secret" {
			t.Fatalf("expected hashed digest stored, got %q", creds.accounts[0].PasswordDigest)
		}
		if identities.current == nil || identities.current.Username != "asha" {
			t.Fatalf("expected identity persisted, got %#v", identities.current)
		}
		if _, ok := mgr.Current(); !ok {
			t.Fatal("expected registration to activate a session")
		}
	})

	t.Run("password mismatch is checked before anything else", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{}
		mgr := newTestManager(creds, &identityStoreStub{}, now)

		params := validParams()
		params.ConfirmPassword = "different"
		params.Email = "not-an-email"

		_, err := mgr.Register(context.Background(), params)
		if !errors.Is(err, ErrPasswordMismatch) {
			t.Fatalf("expected ErrPasswordMismatch, got %v", err)
		}
		if len(creds.addCalls) != 0 || len(creds.accounts) != 0 {
			t.Fatal("expected no store interaction on mismatch")
		}
	})

	t.Run("rejects invalid fields with a validation error", func(t *testing.T) {
		t.Parallel()

		mgr := newTestManager(&credentialStoreStub{}, &identityStoreStub{}, now)

		params := validParams()
		params.Name = "  "
		params.Email = "not-an-email"

		_, err := mgr.Register(context.Background(), params)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["name"] == "" || vErr.FieldErrors["email"] == "" {
			t.Fatalf("expected name and email errors, got %#v", vErr.FieldErrors)
		}
	})

	t.Run("duplicate username keeps the original account", func(t *testing.T) {
		t.Parallel()

		existing := storedAccount("asha", "original")
		creds := &credentialStoreStub{accounts: []AccountCredentials{existing}}
		mgr := newTestManager(creds, &identityStoreStub{}, now)

		_, err := mgr.Register(context.Background(), validParams())
		if !errors.Is(err, ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
		if len(creds.accounts) != 1 || creds.accounts[0].PasswordDigest != "digest:original" {
			t.Fatalf("expected original account untouched, got %#v", creds.accounts)
		}
		if _, ok := mgr.Current(); ok {
			t.Fatal("expected no session after rejected registration")
		}
	})
}

func TestSessionManager_LogoutAndRestore(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	t.Run("logout clears the session and identity slot only", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{accounts: []AccountCredentials{storedAccount("asha", "secret")}}
		identities := &identityStoreStub{}
		mgr := newTestManager(creds, identities, now)

		if _, err := mgr.Login(context.Background(), LoginParams{Username: "asha", Password: "secret"}); err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		mgr.Logout(context.Background())

		if _, ok := mgr.Current(); ok {
			t.Fatal("expected anonymous state after logout")
		}
		if identities.current != nil {
			t.Fatalf("expected identity slot cleared, got %#v", identities.current)
		}
		if len(creds.accounts) != 1 {
			t.Fatalf("expected registered accounts to survive logout, got %d", len(creds.accounts))
		}
	})

	t.Run("logout of an anonymous manager succeeds", func(t *testing.T) {
		t.Parallel()

		identities := &identityStoreStub{}
		mgr := newTestManager(&credentialStoreStub{}, identities, now)

		mgr.Logout(context.Background())
		if identities.clearCalls != 1 {
			t.Fatalf("expected the slot clear to run, got %d calls", identities.clearCalls)
		}
	})

	t.Run("restore seeds the session from the slot", func(t *testing.T) {
		t.Parallel()

		account := storedAccount("asha", "secret").Account
		identities := &identityStoreStub{current: &account}
		mgr := newTestManager(&credentialStoreStub{}, identities, now)

		if err := mgr.Restore(context.Background()); err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		session, ok := mgr.Current()
		if !ok || session.Account.Username != "asha" {
			t.Fatalf("expected restored session, got ok=%v session=%#v", ok, session)
		}
	})

	t.Run("restore with an empty slot stays anonymous", func(t *testing.T) {
		t.Parallel()

		mgr := newTestManager(&credentialStoreStub{}, &identityStoreStub{}, now)
		if err := mgr.Restore(context.Background()); err != nil {
			t.Fatalf("Restore failed: %v", err)
		}
		if _, ok := mgr.Current(); ok {
			t.Fatal("expected anonymous state")
		}
	})

	t.Run("restore surfaces hard storage failures", func(t *testing.T) {
		t.Parallel()

		identities := &identityStoreStub{failWith: ErrStorageUnavailable}
		mgr := newTestManager(&credentialStoreStub{}, identities, now)
		if err := mgr.Restore(context.Background()); !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}
