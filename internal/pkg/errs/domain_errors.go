package errs

import "errors"

// Error categories shared by every use case. Specific sentinels are marked with
// one of these so the transport layer can pick a status without knowing them.
var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrProvider        = errors.New("payment provider error")
	ErrProviderTimeout = errors.New("payment provider timeout")
)

// Category returns a sentinel that matches both itself and the given category
// through Is.
func Category(msg string, category error) error {
	return Mark(New(msg), category)
}
