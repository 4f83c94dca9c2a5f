package application

import "time"

// SchemeRecord is a single entry in the immutable scheme catalog. The six
// criteria fields are either nil (no restriction on that dimension) or a
// non-empty set of accepted values.
type SchemeRecord struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	DetailedDescription string   `json:"detailedDescription,omitempty"`
	Eligibility         string   `json:"eligibility"`
	Benefits            string   `json:"benefits"`
	Documents           string   `json:"documents"`
	Guide               string   `json:"guide"`
	Deadline            string   `json:"deadline,omitempty"`
	Link                string   `json:"link"`
	BusinessType        []string `json:"businessType,omitempty"`
	Sector              []string `json:"sector,omitempty"`
	Size                []string `json:"size,omitempty"`
	Location            []string `json:"location,omitempty"`
	Revenue             []string `json:"revenue,omitempty"`
	Years               []string `json:"years,omitempty"`
}

// EligibilityQuery carries exactly one value per criterion dimension. It is
// built fresh from the intake form for each search and never persisted.
type EligibilityQuery struct {
	BusinessType string `json:"businessType"`
	Sector       string `json:"sector"`
	Size         string `json:"size"`
	Location     string `json:"location"`
	Revenue      string `json:"revenue"`
	Years        string `json:"years"`
}

// Account represents a registered user as exposed by the application layer.
// The password digest stays in the persistence model and is never carried on
// this type, so identity snapshots cannot leak it.
type Account struct {
	ID           string
	Name         string
	Email        string
	Username     string
	BusinessType string
	RegisteredAt time.Time
	LastLogin    time.Time
}

// Session is the explicit current-identity holder: at most one per running
// process, carrying a disposable snapshot of the authenticated account.
type Session struct {
	ID        string
	Account   Account
	StartedAt time.Time
}

// LoginParams captures the data required to authenticate a user.
type LoginParams struct {
	Username string
	Password string
	// RememberDevice controls whether the refreshed LastLogin timestamp is
	// written back to the credential store, mirroring the intake form's
	// "remember me" checkbox.
	RememberDevice bool
}

// RegisterParams captures the data required to create an account.
type RegisterParams struct {
	Name            string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	BusinessType    string
}
