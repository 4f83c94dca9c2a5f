package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/scheme-discovery/internal/application"
	"github.com/example/scheme-discovery/internal/persistence"
)

var (
	accountCounter uint64
	schemeCounter  uint64
)

var referenceTime = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Account fixtures ---------------------------

// AccountFixture represents a deterministic registered account that can be
// materialised for application or persistence tests.
type AccountFixture struct {
	ID             string
	Name           string
	Email          string
	Username       string
	PasswordDigest string
	BusinessType   string
	RegisteredAt   time.Time
	LastLogin      time.Time
}

// AccountOption configures the generated account fixture.
type AccountOption func(*AccountFixture)

// NewAccountFixture returns a deterministic account fixture with optional overrides.
func NewAccountFixture(opts ...AccountOption) AccountFixture {
	idx := atomic.AddUint64(&accountCounter, 1)
	id := fmt.Sprintf("account-%03d", idx)
	registered := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := AccountFixture{
		ID:             id,
		Name:           fmt.Sprintf("Owner %03d", idx),
		Email:          fmt.Sprintf("%s@example.com", id),
		Username:       fmt.Sprintf("owner%03d", idx),
		PasswordDigest: fmt.Sprintf("digest-%03d", idx),
		BusinessType:   "manufacturing",
		RegisteredAt:   registered,
		LastLogin:      registered,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAccountID overrides the generated account ID.
func WithAccountID(id string) AccountOption {
	return func(f *AccountFixture) {
		f.ID = id
	}
}

// WithAccountUsername overrides the generated username.
func WithAccountUsername(username string) AccountOption {
	return func(f *AccountFixture) {
		f.Username = username
	}
}

// WithAccountEmail overrides the generated email address.
func WithAccountEmail(email string) AccountOption {
	return func(f *AccountFixture) {
		f.Email = email
	}
}

// WithAccountPasswordDigest overrides the generated password digest.
func WithAccountPasswordDigest(digest string) AccountOption {
	return func(f *AccountFixture) {
		f.PasswordDigest = digest
	}
}

// WithAccountBusinessType overrides the business type.
func WithAccountBusinessType(businessType string) AccountOption {
	return func(f *AccountFixture) {
		f.BusinessType = businessType
	}
}

// WithAccountTimestamps sets both registration and last-login timestamps.
func WithAccountTimestamps(registered, lastLogin time.Time) AccountOption {
	return func(f *AccountFixture) {
		f.RegisteredAt = registered
		f.LastLogin = lastLogin
	}
}

// Application returns the fixture as an application.Account value.
func (f AccountFixture) Application() application.Account {
	return application.Account{
		ID:           f.ID,
		Name:         f.Name,
		Email:        f.Email,
		Username:     f.Username,
		BusinessType: f.BusinessType,
		RegisteredAt: f.RegisteredAt,
		LastLogin:    f.LastLogin,
	}
}

// Credentials returns the fixture as application.AccountCredentials.
func (f AccountFixture) Credentials() application.AccountCredentials {
	return application.AccountCredentials{
		Account:        f.Application(),
		PasswordDigest: f.PasswordDigest,
	}
}

// Persistence returns the fixture as a persistence.Account value.
func (f AccountFixture) Persistence() persistence.Account {
	return persistence.Account{
		ID:             f.ID,
		Name:           f.Name,
		Email:          f.Email,
		Username:       f.Username,
		PasswordDigest: f.PasswordDigest,
		BusinessType:   f.BusinessType,
		RegisteredDate: f.RegisteredAt.UTC().Format(time.RFC3339),
		LastLogin:      f.LastLogin.UTC().Format(time.RFC3339),
	}
}

// RegisterParams returns the fixture as application.RegisterParams with a
// matching password and confirmation.
func (f AccountFixture) RegisterParams(password string) application.RegisterParams {
	return application.RegisterParams{
		Name:            f.Name,
		Email:           f.Email,
		Username:        f.Username,
		Password:        password,
		ConfirmPassword: password,
		BusinessType:    f.BusinessType,
	}
}

// ---------------------------- Scheme fixtures ---------------------------

// SchemeFixture represents a deterministic catalog record.
type SchemeFixture struct {
	ID           string
	Name         string
	Description  string
	Eligibility  string
	Benefits     string
	Documents    string
	Guide        string
	Deadline     string
	Link         string
	BusinessType []string
	Sector       []string
	Size         []string
	Location     []string
	Revenue      []string
	Years        []string
}

// SchemeOption configures the generated scheme fixture.
type SchemeOption func(*SchemeFixture)

// NewSchemeFixture returns a deterministic scheme fixture with optional overrides.
func NewSchemeFixture(opts ...SchemeOption) SchemeFixture {
	idx := atomic.AddUint64(&schemeCounter, 1)
	id := fmt.Sprintf("scheme-%03d", idx)
	fixture := SchemeFixture{
		ID:          id,
		Name:        fmt.Sprintf("Scheme %03d", idx),
		Description: fmt.Sprintf("Support programme %03d", idx),
		Eligibility: "Registered enterprises",
		Benefits:    "Subsidised credit",
		Documents:   "Registration certificate",
		Guide:       "Apply through the portal",
		Link:        fmt.Sprintf("https://example.gov/%s", id),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSchemeID overrides the generated scheme ID.
func WithSchemeID(id string) SchemeOption {
	return func(f *SchemeFixture) {
		f.ID = id
	}
}

// WithSchemeName overrides the generated name.
func WithSchemeName(name string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Name = name
	}
}

// WithSchemeBusinessType constrains the businessType dimension.
func WithSchemeBusinessType(values ...string) SchemeOption {
	return func(f *SchemeFixture) {
		f.BusinessType = append([]string(nil), values...)
	}
}

// WithSchemeSector constrains the sector dimension.
func WithSchemeSector(values ...string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Sector = append([]string(nil), values...)
	}
}

// WithSchemeSize constrains the size dimension.
func WithSchemeSize(values ...string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Size = append([]string(nil), values...)
	}
}

// WithSchemeLocation constrains the location dimension.
func WithSchemeLocation(values ...string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Location = append([]string(nil), values...)
	}
}

// WithSchemeRevenue constrains the revenue dimension.
func WithSchemeRevenue(values ...string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Revenue = append([]string(nil), values...)
	}
}

// WithSchemeYears constrains the years dimension.
func WithSchemeYears(values ...string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Years = append([]string(nil), values...)
	}
}

// WithSchemeDeadline sets the application deadline.
func WithSchemeDeadline(deadline string) SchemeOption {
	return func(f *SchemeFixture) {
		f.Deadline = deadline
	}
}

// Record returns the fixture as an application.SchemeRecord value.
func (f SchemeFixture) Record() application.SchemeRecord {
	return application.SchemeRecord{
		ID:           f.ID,
		Name:         f.Name,
		Description:  f.Description,
		Eligibility:  f.Eligibility,
		Benefits:     f.Benefits,
		Documents:    f.Documents,
		Guide:        f.Guide,
		Deadline:     f.Deadline,
		Link:         f.Link,
		BusinessType: append([]string(nil), f.BusinessType...),
		Sector:       append([]string(nil), f.Sector...),
		Size:         append([]string(nil), f.Size...),
		Location:     append([]string(nil), f.Location...),
		Revenue:      append([]string(nil), f.Revenue...),
		Years:        append([]string(nil), f.Years...),
	}
}
