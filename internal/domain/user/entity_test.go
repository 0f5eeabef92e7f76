//go:build unit

package user_test

import (
	"testing"

	"travel-booking/internal/domain/user"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

func TestNewUser(t *testing.T) {
	t.Run("Normal case: user is created active", func(t *testing.T) {
		email, err := user.NewEmail("  Owner@Example.com ")
		require.NoError(t, err)

		actual, err := user.NewUser(email, " Ana Owner ", "hashed", user.RoleOwner)
		require.NoError(t, err)

		expected, _ := user.NewUser(email, "Ana Owner", "hashed", user.RoleOwner)
		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "owner@example.com", actual.Email().Value())
		assert.Equal(t, "Ana Owner", actual.Name())
		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Zero(t, actual.TotalEarnings())
		assert.Nil(t, actual.LastLogin())
	})

	t.Run("Error case: blank name", func(t *testing.T) {
		email, _ := user.NewEmail("a@example.com")
		_, err := user.NewUser(email, "  ", "hashed", user.RoleGuest)
		assert.ErrorIs(t, err, user.ErrEmptyName)
	})
}

func TestEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "valid address OK", input: "valid@example.com"},
		{name: "empty NG", input: "", errIs: user.ErrInvalidEmail},
		{name: "no domain NG", input: "invalid-email", errIs: user.ErrInvalidEmail},
		{name: "no at sign NG", input: "invalidemail.com", errIs: user.ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := user.NewEmail(tc.input)
			if tc.errIs == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.errIs)
		})
	}
}

func TestRole(t *testing.T) {
	for _, r := range []string{"guest", "owner", "admin"} {
		role, err := user.NewRole(r)
		require.NoError(t, err)
		assert.Equal(t, r, role.String())
	}
	for _, r := range []string{"", "viewer", "ADMIN"} {
		_, err := user.NewRole(r)
		assert.ErrorIs(t, err, user.ErrInvalidRole, "role %q", r)
	}
}

func TestNewCredentials(t *testing.T) {
	t.Run("email is normalised", func(t *testing.T) {
		c, err := user.NewCredentials("  Owner@Example.COM ", "short")
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", c.Email().Value())
		assert.Equal(t, "short", c.Password())
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := user.NewCredentials("owner", "password123")
		assert.ErrorIs(t, err, user.ErrInvalidEmail)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := user.NewCredentials("owner@example.com", "")
		assert.ErrorIs(t, err, user.ErrPasswordTooWeak)
	})
}
