package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"
)

// AccountCredentials pairs an account with its stored password digest. The
// digest never leaves the credential path.
type AccountCredentials struct {
	Account        Account
	PasswordDigest string
}

// CredentialStore exposes the durable account collection required by the
// session manager. Implementations rewrite the whole collection on every
// mutation; there is no partial update primitive.
type CredentialStore interface {
	ListAccounts(ctx context.Context) ([]AccountCredentials, error)
	FindByUsername(ctx context.Context, username string) (AccountCredentials, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	AddAccount(ctx context.Context, creds AccountCredentials) error
	UpdateAccount(ctx context.Context, creds AccountCredentials) error
}

// IdentityStore persists the single current-identity marker so a session
// survives process restarts. It is a separate slot from the account
// collection.
type IdentityStore interface {
	SaveCurrent(ctx context.Context, account Account) error
	Current(ctx context.Context) (Account, error)
	Clear(ctx context.Context) error
}

// PasswordVerifier compares a stored digest with a candidate password.
type PasswordVerifier func(digest, password string) error

// PasswordHasher derives a storable digest from a plaintext password.
type PasswordHasher func(password string) (string, error)

// SessionManager tracks at most one authenticated identity per running
// process. It is constructed once at startup, restored from the persisted
// identity slot, and updated explicitly on login, registration, and logout —
// never through global lookups.
type SessionManager struct {
	credentials    CredentialStore
	identities     IdentityStore
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	idGenerator    func() string
	sessionID      func() string
	now            func() time.Time
	logger         *slog.Logger

	mu      sync.Mutex
	current *Session
}

// NewSessionManager wires dependencies for the session manager. Nil hash and
// verify functions fall back to the argon2id implementations.
func NewSessionManager(credentials CredentialStore, identities IdentityStore, hash PasswordHasher, verify PasswordVerifier, idGenerator, sessionID func() string, now func() time.Time, logger *slog.Logger) *SessionManager {
	if hash == nil {
		hash = func(password string) (string, error) {
			return HashPassword(password, DefaultArgon2idParams)
		}
	}
	if verify == nil {
		verify = VerifyPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if sessionID == nil {
		sessionID = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		credentials:    credentials,
		identities:     identities,
		hashPassword:   hash,
		verifyPassword: verify,
		idGenerator:    idGenerator,
		sessionID:      sessionID,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *SessionManager) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionManager", operation, attrs...)
}

// Restore seeds the in-memory session from the persisted identity slot. An
// empty or unreadable slot leaves the manager anonymous; only a hard storage
// failure is returned.
func (s *SessionManager) Restore(ctx context.Context) error {
	if s == nil || s.identities == nil {
		return nil
	}

	account, err := s.identities.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.current = &Session{ID: s.sessionID(), Account: account, StartedAt: s.now()}
	s.mu.Unlock()

	s.log(ctx, "Restore", "username", account.Username).InfoContext(ctx, "session restored from persisted identity")
	return nil
}

// Login authenticates a username/password pair against the credential store
// and transitions to the authenticated state. Unknown usernames and wrong
// passwords both fail with ErrInvalidCredentials.
func (s *SessionManager) Login(ctx context.Context, params LoginParams) (session Session, err error) {
	if s == nil {
		err = fmt.Errorf("SessionManager is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	username := params.Username
	logger := s.log(ctx, "Login", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("account_id", session.Account.ID).InfoContext(ctx, "login succeeded")
	}()

	creds, err := s.credentials.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if err = s.verifyPassword(creds.PasswordDigest, params.Password); err != nil {
		err = ErrInvalidCredentials
		return
	}

	now := s.now()
	account := creds.Account
	account.LastLogin = now

	if params.RememberDevice {
		refreshed := AccountCredentials{Account: account, PasswordDigest: creds.PasswordDigest}
		if err = s.credentials.UpdateAccount(ctx, refreshed); err != nil {
			return
		}
	}

	if err = s.persistIdentity(ctx, account); err != nil {
		return
	}

	session = s.beginSession(account, now)
	return
}

// Register validates the input, creates a new account, and transitions
// directly to the authenticated state — registration auto-logs-in.
func (s *SessionManager) Register(ctx context.Context, params RegisterParams) (session Session, err error) {
	if s == nil {
		err = fmt.Errorf("SessionManager is nil")
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	normalized := normalizeRegisterParams(params)
	logger := s.log(ctx, "Register", "username", normalized.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "registration failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("account_id", session.Account.ID).InfoContext(ctx, "account registered")
	}()

	if normalized.Password != normalized.ConfirmPassword {
		err = ErrPasswordMismatch
		return
	}

	if vErr := validateRegisterParams(normalized); vErr.HasErrors() {
		err = vErr
		return
	}

	var taken bool
	taken, err = s.credentials.UsernameExists(ctx, normalized.Username)
	if err != nil {
		return
	}
	if taken {
		err = ErrUsernameTaken
		return
	}

	var digest string
	digest, err = s.hashPassword(normalized.Password)
	if err != nil {
		return
	}

	now := s.now()
	account := Account{
		ID:           s.idGenerator(),
		Name:         normalized.Name,
		Email:        normalized.Email,
		Username:     normalized.Username,
		BusinessType: normalized.BusinessType,
		RegisteredAt: now,
		LastLogin:    now,
	}

	if err = s.credentials.AddAccount(ctx, AccountCredentials{Account: account, PasswordDigest: digest}); err != nil {
		return
	}

	if err = s.persistIdentity(ctx, account); err != nil {
		return
	}

	session = s.beginSession(account, now)
	return
}

// Logout transitions to the anonymous state unconditionally and clears the
// persisted identity slot. It never fails; slot-clear errors are logged and
// swallowed so the in-memory state always resets.
func (s *SessionManager) Logout(ctx context.Context) {
	if s == nil {
		return
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if s.identities != nil {
		if err := s.identities.Clear(ctx); err != nil {
			s.log(ctx, "Logout").ErrorContext(ctx, "failed to clear persisted identity", "error", err, "error_kind", ErrorKind(err))
			return
		}
	}
	s.log(ctx, "Logout").InfoContext(ctx, "session cleared")
}

// Current returns the active session snapshot, if any.
func (s *SessionManager) Current() (Session, bool) {
	if s == nil {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *SessionManager) beginSession(account Account, startedAt time.Time) Session {
	session := Session{ID: s.sessionID(), Account: account, StartedAt: startedAt}
	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()
	return session
}

func (s *SessionManager) persistIdentity(ctx context.Context, account Account) error {
	if s.identities == nil {
		return nil
	}
	return s.identities.SaveCurrent(ctx, account)
}

func normalizeRegisterParams(params RegisterParams) RegisterParams {
	return RegisterParams{
		Name:            strings.TrimSpace(params.Name),
		Email:           strings.TrimSpace(strings.ToLower(params.Email)),
		Username:        strings.TrimSpace(params.Username),
		Password:        params.Password,
		ConfirmPassword: params.ConfirmPassword,
		BusinessType:    strings.TrimSpace(params.BusinessType),
	}
}

func validateRegisterParams(params RegisterParams) *ValidationError {
	vErr := &ValidationError{}

	if params.Name == "" {
		vErr.add("name", "name is required")
	}

	if params.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(params.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if params.Username == "" {
		vErr.add("username", "username is required")
	}

	if params.Password == "" {
		vErr.add("password", "password is required")
	}

	return vErr
}
