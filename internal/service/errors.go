package service

import (
	"errors"
	"strings"
)

// Sentinel errors shared by every service. Handlers translate them to HTTP
// statuses; services never import transport packages.
var (
	// ErrNotFound covers absent rows and, deliberately, ownership
	// mismatches: a caller probing another user's resource learns nothing
	// beyond "not found".
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized means the caller's credentials are missing or wrong.
	ErrUnauthorized = errors.New("invalid credentials")

	// ErrForbidden means the caller is known but the operation is not
	// permitted for them (unverified account, insufficient share permission).
	ErrForbidden = errors.New("operation not permitted")

	// ErrConflict means the request collides with existing state, such as a
	// duplicate registration.
	ErrConflict = errors.New("resource already exists")

	// ErrNotVerified means the account exists but has not completed
	// verification yet.
	ErrNotVerified = errors.New("account not verified")
)

// ValidationError carries every violation found in a request, so a client
// can fix its input in one round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// validate collects violations and returns a ValidationError when any exist.
type validate struct {
	violations []string
}

func (v *validate) addf(ok bool, msg string) {
	if !ok {
		v.violations = append(v.violations, msg)
	}
}

func (v *validate) err() error {
	if len(v.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.violations}
}
