package persistence

import "context"

// CredentialStore owns the durable account collection, kept as one ordered
// list under a fixed storage key. Every mutation reads, modifies, and rewrites
// the entire collection; there is no partial update.
type CredentialStore interface {
	// ListAccounts returns the full stored collection. A missing or
	// unparseable collection reads as empty rather than failing.
	ListAccounts(ctx context.Context) ([]Account, error)
	// FindByUsername returns the account with the exact username, or
	// ErrNotFound.
	FindByUsername(ctx context.Context, username string) (Account, error)
	// UsernameExists reports whether any stored account carries the exact,
	// case-sensitive username.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// AddAccount appends the account and rewrites the collection. Returns
	// ErrDuplicate when the username is already taken.
	AddAccount(ctx context.Context, account Account) error
	// UpdateAccount replaces the stored record with matching id and username,
	// then rewrites the collection. Returns ErrNotFound for unknown accounts.
	UpdateAccount(ctx context.Context, account Account) error
}

// IdentityStore owns the single current-identity slot, stored under its own
// key so clearing a session never touches the account collection.
type IdentityStore interface {
	SaveCurrent(ctx context.Context, identity Identity) error
	// Current returns the persisted identity, or ErrNotFound when logged out.
	Current(ctx context.Context) (Identity, error)
	Clear(ctx context.Context) error
}

// AlertStore keeps the last subscribed scheme-alert email address.
type AlertStore interface {
	SaveAlertEmail(ctx context.Context, email string) error
	// AlertEmail returns the stored address, or ErrNotFound when none exists.
	AlertEmail(ctx context.Context) (string, error)
}
