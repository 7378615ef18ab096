// Package apperrors defines the error taxonomy shared by services,
// storage and handlers. Handlers map these to HTTP status codes in
// one place; nothing below the HTTP layer knows about status codes.
package apperrors

import (
	"errors"
	"fmt"
)

// Validation failures — caller fixes input, never retried automatically.
var (
	ErrInvalidPhone      = errors.New("phone number must be 10 digits")
	ErrInvalidNationalID = errors.New("national id must be 12 digits")
	ErrInvalidYearRange  = errors.New("invalid year range")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
	ErrUnknownLocation   = errors.New("district, mandal or village not recognized")
)

// Duplicate registrations.
var (
	ErrDuplicatePhone      = errors.New("phone number already registered")
	ErrDuplicateNationalID = errors.New("national id already registered")
	ErrDuplicateEmail      = errors.New("email already registered")
)

// Authentication and authorization.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrUnknownPhone       = errors.New("phone number not registered")
	ErrForbidden          = errors.New("not allowed to access this resource")
)

var ErrNotFound = errors.New("not found")

// Attachment failures.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrAttachmentFailed  = errors.New("document stored but request state changed concurrently")
)

// DependencyFailure wraps an external collaborator error (SMS, blob
// store, payment) so callers can distinguish "try again later" from
// their own mistakes.
type DependencyFailure struct {
	Dependency string
	Err        error
}

func (d *DependencyFailure) Error() string {
	return fmt.Sprintf("%s unavailable: %v", d.Dependency, d.Err)
}

func (d *DependencyFailure) Unwrap() error { return d.Err }

// StateConflict signals a lifecycle transition that found the request
// in a state other than the one it expected. Current carries the state
// actually stored so the caller can decide whether a retry makes sense.
type StateConflict struct {
	RequestID string
	Expected  string
	Current   string
}

func (s *StateConflict) Error() string {
	return fmt.Sprintf("request %s is %s, expected %s", s.RequestID, s.Current, s.Expected)
}

// IsStateConflict reports whether err is a StateConflict and returns it.
func IsStateConflict(err error) (*StateConflict, bool) {
	var sc *StateConflict
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}
