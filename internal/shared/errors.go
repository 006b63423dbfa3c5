package shared

import "errors"

var (
	// ErrUnauthenticated indicates a missing, invalid or revoked credential,
	// or a credential that resolves to a missing or deactivated account.
	// Callers must not attach cause detail that would distinguish these.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates a valid identity lacking the required capability.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a duplicate value or a delete blocked by references.
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates the referenced record does not exist.
	ErrNotFound = errors.New("not found")
)
