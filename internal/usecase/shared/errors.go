package shared

import (
	"fmt"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/pkg/errs"
)

// ConflictError lists the stored bookings that block a requested range.
type ConflictError struct {
	Conflicts []booking.Stay
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dates overlap %d existing booking(s)", len(e.Conflicts))
}

// NewConflictError returns an error matching errs.ErrConflict that still
// carries the conflicting stays for errors.As.
func NewConflictError(conflicts []booking.Stay) error {
	return errs.Mark(&ConflictError{Conflicts: conflicts}, errs.ErrConflict)
}
