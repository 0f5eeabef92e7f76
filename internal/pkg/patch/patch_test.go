//go:build unit

package patch_test

import (
	"testing"

	"travel-booking/internal/pkg/patch"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	v := 3
	assert.Equal(t, 3, patch.Coalesce(&v, 10))
	assert.Equal(t, 10, patch.Coalesce[int](nil, 10))
}

func TestTrimmedOrNil(t *testing.T) {
	blank := "   "
	notes := "  late arrival "

	assert.Nil(t, patch.TrimmedOrNil(nil))
	assert.Nil(t, patch.TrimmedOrNil(&blank))
	assert.Equal(t, "late arrival", *patch.TrimmedOrNil(&notes))
}
