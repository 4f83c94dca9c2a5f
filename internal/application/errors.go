package application

import "errors"

var (
	// ErrInvalidCredentials is returned when a login attempt fails. Unknown
	// usernames and wrong passwords are deliberately indistinguishable so the
	// error cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrUsernameTaken is returned when a registration reuses an existing username.
	ErrUsernameTaken = errors.New("application: username already taken")
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("application: passwords do not match")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrStorageUnavailable is returned when the local persistence layer
	// denies a read or write. The triggering operation is aborted and prior
	// state left untouched.
	ErrStorageUnavailable = errors.New("application: storage unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
