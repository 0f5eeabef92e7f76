//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"travel-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestCategory(t *testing.T) {
	errBookingMissing := errs.Category("booking not found", errs.ErrNotFound)

	t.Run("sentinel matches itself and its category", func(t *testing.T) {
		assert.True(t, errs.Is(errBookingMissing, errBookingMissing))
		assert.True(t, errs.Is(errBookingMissing, errs.ErrNotFound))
		assert.False(t, errs.Is(errBookingMissing, errs.ErrConflict))
	})

	t.Run("wrapped sentinel keeps category", func(t *testing.T) {
		wrapped := errs.Wrap(errBookingMissing, "get booking")
		assert.True(t, errs.Is(wrapped, errs.ErrNotFound))
		assert.True(t, errors.Is(wrapped, errBookingMissing))
	})

	t.Run("mark nil error returns mark", func(t *testing.T) {
		assert.Equal(t, errs.ErrConflict, errs.Mark(nil, errs.ErrConflict))
	})
}

func TestCause(t *testing.T) {
	root := errs.Category("resource not found", errs.ErrNotFound)
	err := errs.Wrap(errs.Mark(root, errs.ErrValidation), "create booking")

	assert.Equal(t, "resource not found", errs.Cause(err).Error())
	assert.Nil(t, errs.Cause(nil))
}
