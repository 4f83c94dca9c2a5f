package persistence

// Account is the durable shape of a registered user. Timestamps are stored as
// RFC 3339 strings because the collection is serialized to JSON under a fixed
// storage key and must stay readable as plain structured text.
type Account struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	PasswordDigest string `json:"password"`
	BusinessType   string `json:"businessType"`
	RegisteredDate string `json:"registeredDate"`
	LastLogin      string `json:"lastLogin"`
}

// Identity is the persisted current-identity marker: the account snapshot of
// the active session, without the password digest.
type Identity struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	BusinessType   string `json:"businessType"`
	RegisteredDate string `json:"registeredDate"`
	LastLogin      string `json:"lastLogin"`
}
