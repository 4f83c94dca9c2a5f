package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/scheme-discovery/internal/persistence"
	"github.com/example/scheme-discovery/internal/testfixtures"
)

func TestCredentialStore(t *testing.T) {
	t.Parallel()

	t.Run("lists empty before anything is stored", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		accounts, err := h.Credentials.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts failed: %v", err)
		}
		if len(accounts) != 0 {
			t.Fatalf("expected empty collection, got %d", len(accounts))
		}
	})

	t.Run("round trips an account", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		account := testfixtures.NewAccountFixture().Persistence()

		if err := h.Credentials.AddAccount(context.Background(), account); err != nil {
			t.Fatalf("AddAccount failed: %v", err)
		}

		found, err := h.Credentials.FindByUsername(context.Background(), account.Username)
		if err != nil {
			t.Fatalf("FindByUsername failed: %v", err)
		}
		if found != account {
			t.Fatalf("stored account mismatch:\n got %#v\nwant %#v", found, account)
		}
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		first := testfixtures.NewAccountFixture(testfixtures.WithAccountUsername("owner")).Persistence()
		second := testfixtures.NewAccountFixture(testfixtures.WithAccountUsername("owner")).Persistence()

		if err := h.Credentials.AddAccount(context.Background(), first); err != nil {
			t.Fatalf("AddAccount failed: %v", err)
		}
		if err := h.Credentials.AddAccount(context.Background(), second); !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}

		accounts, err := h.Credentials.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts failed: %v", err)
		}
		if len(accounts) != 1 || accounts[0].ID != first.ID {
			t.Fatalf("expected only the first account, got %#v", accounts)
		}
	})

	t.Run("updates a stored account in place", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		account := testfixtures.NewAccountFixture().Persistence()
		if err := h.Credentials.AddAccount(context.Background(), account); err != nil {
			t.Fatalf("AddAccount failed: %v", err)
		}

		account.LastLogin = "2025-06-01T12:00:00Z"
		if err := h.Credentials.UpdateAccount(context.Background(), account); err != nil {
			t.Fatalf("UpdateAccount failed: %v", err)
		}

		found, err := h.Credentials.FindByUsername(context.Background(), account.Username)
		if err != nil {
			t.Fatalf("FindByUsername failed: %v", err)
		}
		if found.LastLogin != "2025-06-01T12:00:00Z" {
			t.Fatalf("expected refreshed LastLogin, got %q", found.LastLogin)
		}
	})

	t.Run("update of an unknown account reports not found", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		account := testfixtures.NewAccountFixture().Persistence()
		if err := h.Credentials.UpdateAccount(context.Background(), account); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("username checks are exact and case-sensitive", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		account := testfixtures.NewAccountFixture(testfixtures.WithAccountUsername("Owner")).Persistence()
		if err := h.Credentials.AddAccount(context.Background(), account); err != nil {
			t.Fatalf("AddAccount failed: %v", err)
		}

		exists, err := h.Credentials.UsernameExists(context.Background(), "owner")
		if err != nil {
			t.Fatalf("UsernameExists failed: %v", err)
		}
		if exists {
			t.Fatal("expected lowercase variant to be free")
		}
	})

	t.Run("malformed stored JSON reads as empty", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		if _, err := h.Pool.DB().ExecContext(context.Background(),
			`INSERT INTO local_state (key, value, updated_at) VALUES ('registeredUsers', '{broken', '2025-01-01T00:00:00Z')`,
		); err != nil {
			t.Fatalf("failed to plant malformed value: %v", err)
		}

		accounts, err := h.Credentials.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts failed: %v", err)
		}
		if len(accounts) != 0 {
			t.Fatalf("expected malformed collection to read as empty, got %#v", accounts)
		}

		// A subsequent write replaces the broken document entirely.
		account := testfixtures.NewAccountFixture().Persistence()
		if err := h.Credentials.AddAccount(context.Background(), account); err != nil {
			t.Fatalf("AddAccount after malformed value failed: %v", err)
		}
		accounts, err = h.Credentials.ListAccounts(context.Background())
		if err != nil {
			t.Fatalf("ListAccounts failed: %v", err)
		}
		if len(accounts) != 1 {
			t.Fatalf("expected the collection to recover, got %#v", accounts)
		}
	})
}

func TestIdentityStore(t *testing.T) {
	t.Parallel()

	t.Run("reports logged out before any save", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		if _, err := h.Identities.Current(context.Background()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("round trips the identity snapshot", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		account := testfixtures.NewAccountFixture().Persistence()
		identity := persistence.Identity{
			ID:             account.ID,
			Name:           account.Name,
			Email:          account.Email,
			Username:       account.Username,
			BusinessType:   account.BusinessType,
			RegisteredDate: account.RegisteredDate,
			LastLogin:      account.LastLogin,
		}

		if err := h.Identities.SaveCurrent(context.Background(), identity); err != nil {
			t.Fatalf("SaveCurrent failed: %v", err)
		}
		found, err := h.Identities.Current(context.Background())
		if err != nil {
			t.Fatalf("Current failed: %v", err)
		}
		if found != identity {
			t.Fatalf("identity mismatch:\n got %#v\nwant %#v", found, identity)
		}
	})

	t.Run("clear empties the slot and tolerates repeats", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		if err := h.Identities.SaveCurrent(context.Background(), persistence.Identity{ID: "a", Username: "asha"}); err != nil {
			t.Fatalf("SaveCurrent failed: %v", err)
		}

		if err := h.Identities.Clear(context.Background()); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if _, err := h.Identities.Current(context.Background()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after clear, got %v", err)
		}
		if err := h.Identities.Clear(context.Background()); err != nil {
			t.Fatalf("expected repeated clear to succeed, got %v", err)
		}
	})

	t.Run("malformed stored identity reads as logged out", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		if _, err := h.Pool.DB().ExecContext(context.Background(),
			`INSERT INTO local_state (key, value, updated_at) VALUES ('currentUser', 'not json', '2025-01-01T00:00:00Z')`,
		); err != nil {
			t.Fatalf("failed to plant malformed value: %v", err)
		}
		if _, err := h.Identities.Current(context.Background()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestAlertStore(t *testing.T) {
	t.Parallel()

	t.Run("reports missing subscription", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		if _, err := h.Alerts.AlertEmail(context.Background()); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("stores and replaces the address", func(t *testing.T) {
		t.Parallel()

		h := testfixtures.NewSQLiteHarness(t)
		if err := h.Alerts.SaveAlertEmail(context.Background(), "first@example.com"); err != nil {
			t.Fatalf("SaveAlertEmail failed: %v", err)
		}
		if err := h.Alerts.SaveAlertEmail(context.Background(), "second@example.com"); err != nil {
			t.Fatalf("SaveAlertEmail failed: %v", err)
		}

		email, err := h.Alerts.AlertEmail(context.Background())
		if err != nil {
			t.Fatalf("AlertEmail failed: %v", err)
		}
		if email != "second@example.com" {
			t.Fatalf("expected the latest address, got %q", email)
		}
	})
}
