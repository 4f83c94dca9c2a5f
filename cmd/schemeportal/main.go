package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/scheme-discovery/internal/application"
	"github.com/example/scheme-discovery/internal/catalog"
	"github.com/example/scheme-discovery/internal/config"
	"github.com/example/scheme-discovery/internal/persistence"
	"github.com/example/scheme-discovery/internal/persistence/sqlite"
	"github.com/example/scheme-discovery/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load scheme catalog", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := func() string { return strconv.FormatInt(time.Now().UnixNano(), 10) }
	sessionID := uuid.NewString
	now := time.Now

	credentials := newCredentialStoreAdapter(sqlite.NewCredentialStore(pool, logger))
	identities := newIdentityStoreAdapter(sqlite.NewIdentityStore(pool, logger))
	alerts := newAlertStoreAdapter(sqlite.NewAlertStore(pool, logger))

	matcherService := application.NewMatcherService(records, logger)
	sessionManager := application.NewSessionManager(credentials, identities, nil, nil, idGenerator, sessionID, now, logger)
	alertService := application.NewAlertService(alerts, logger)

	if err := sessionManager.Restore(context.Background()); err != nil {
		logger.Error("failed to restore persisted session", "error", err)
		os.Exit(1)
	}

	router := web.NewRouter(web.RouterConfig{
		Schemes:    web.NewSchemeHandler(matcherService, logger),
		Sessions:   web.NewSessionHandler(sessionManager, logger),
		Alerts:     web.NewAlertHandler(alertService, logger),
		Middleware: []func(http.Handler) http.Handler{web.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("scheme portal listening", "addr", server.Addr, "catalog_size", len(records))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// mapPersistenceError rewrites store sentinels into the application
// vocabulary so the services can match on their own errors.
func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrUsernameTaken
	case errors.Is(err, persistence.ErrUnavailable):
		return fmt.Errorf("%w: %v", application.ErrStorageUnavailable, err)
	default:
		return err
	}
}

func toPersistenceAccount(creds application.AccountCredentials) persistence.Account {
	return persistence.Account{
		ID:             creds.Account.ID,
		Name:           creds.Account.Name,
		Email:          creds.Account.Email,
		Username:       creds.Account.Username,
		PasswordDigest: creds.PasswordDigest,
		BusinessType:   creds.Account.BusinessType,
		RegisteredDate: creds.Account.RegisteredAt.UTC().Format(time.RFC3339),
		LastLogin:      creds.Account.LastLogin.UTC().Format(time.RFC3339),
	}
}

func toApplicationCredentials(account persistence.Account) application.AccountCredentials {
	return application.AccountCredentials{
		Account: application.Account{
			ID:           account.ID,
			Name:         account.Name,
			Email:        account.Email,
			Username:     account.Username,
			BusinessType: account.BusinessType,
			RegisteredAt: parseStoredTime(account.RegisteredDate),
			LastLogin:    parseStoredTime(account.LastLogin),
		},
		PasswordDigest: account.PasswordDigest,
	}
}

// parseStoredTime tolerates malformed timestamps: a record written by an
// older build must still authenticate, so a bad value reads as the zero time.
func parseStoredTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

type credentialStoreAdapter struct {
	store *sqlite.CredentialStore
}

func newCredentialStoreAdapter(store *sqlite.CredentialStore) *credentialStoreAdapter {
	return &credentialStoreAdapter{store: store}
}

func (a *credentialStoreAdapter) ListAccounts(ctx context.Context) ([]application.AccountCredentials, error) {
	accounts, err := a.store.ListAccounts(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	out := make([]application.AccountCredentials, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toApplicationCredentials(account))
	}
	return out, nil
}

func (a *credentialStoreAdapter) FindByUsername(ctx context.Context, username string) (application.AccountCredentials, error) {
	account, err := a.store.FindByUsername(ctx, username)
	if err != nil {
		return application.AccountCredentials{}, mapPersistenceError(err)
	}
	return toApplicationCredentials(account), nil
}

func (a *credentialStoreAdapter) UsernameExists(ctx context.Context, username string) (bool, error) {
	exists, err := a.store.UsernameExists(ctx, username)
	if err != nil {
		return false, mapPersistenceError(err)
	}
	return exists, nil
}

func (a *credentialStoreAdapter) AddAccount(ctx context.Context, creds application.AccountCredentials) error {
	return mapPersistenceError(a.store.AddAccount(ctx, toPersistenceAccount(creds)))
}

func (a *credentialStoreAdapter) UpdateAccount(ctx context.Context, creds application.AccountCredentials) error {
	return mapPersistenceError(a.store.UpdateAccount(ctx, toPersistenceAccount(creds)))
}

type identityStoreAdapter struct {
	store *sqlite.IdentityStore
}

func newIdentityStoreAdapter(store *sqlite.IdentityStore) *identityStoreAdapter {
	return &identityStoreAdapter{store: store}
}

func (a *identityStoreAdapter) SaveCurrent(ctx context.Context, account application.Account) error {
	identity := persistence.Identity{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		Username:       account.Username,
		BusinessType:   account.BusinessType,
		RegisteredDate: account.RegisteredAt.UTC().Format(time.RFC3339),
		LastLogin:      account.LastLogin.UTC().Format(time.RFC3339),
	}
	return mapPersistenceError(a.store.SaveCurrent(ctx, identity))
}

func (a *identityStoreAdapter) Current(ctx context.Context) (application.Account, error) {
	identity, err := a.store.Current(ctx)
	if err != nil {
		return application.Account{}, mapPersistenceError(err)
	}
	return application.Account{
		ID:           identity.ID,
		Name:         identity.Name,
		Email:        identity.Email,
		Username:     identity.Username,
		BusinessType: identity.BusinessType,
		RegisteredAt: parseStoredTime(identity.RegisteredDate),
		LastLogin:    parseStoredTime(identity.LastLogin),
	}, nil
}

func (a *identityStoreAdapter) Clear(ctx context.Context) error {
	return mapPersistenceError(a.store.Clear(ctx))
}

type alertStoreAdapter struct {
	store *sqlite.AlertStore
}

func newAlertStoreAdapter(store *sqlite.AlertStore) *alertStoreAdapter {
	return &alertStoreAdapter{store: store}
}

func (a *alertStoreAdapter) SaveAlertEmail(ctx context.Context, email string) error {
	return mapPersistenceError(a.store.SaveAlertEmail(ctx, email))
}

func (a *alertStoreAdapter) AlertEmail(ctx context.Context) (string, error) {
	email, err := a.store.AlertEmail(ctx)
	if err != nil {
		return "", mapPersistenceError(err)
	}
	return email, nil
}
