//go:build unit

package queries_test

import (
	"context"
	"testing"

	queriesmock "travel-booking/internal/mock/queries"
	"travel-booking/internal/testutil/builder"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResourceQueries(t *testing.T) {
	t.Run("GetByID", func(t *testing.T) {
		view := builder.NewResourceBuilder().BuildView()
		store := queriesmock.NewMockResourceReadStore(gomock.NewController(t))
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		got, err := queries.NewResourceQueries(store).GetByID(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, got)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		store := queriesmock.NewMockResourceReadStore(gomock.NewController(t))
		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, notFound())

		_, err := queries.NewResourceQueries(store).GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, queries.ErrResourceNotFound)
	})

	t.Run("List filters by kind", func(t *testing.T) {
		kind := "vehicle"
		store := queriesmock.NewMockResourceReadStore(gomock.NewController(t))
		store.EXPECT().List(gomock.Any(), &kind, 20, 0).Return(nil, int64(0), nil)

		page, err := queries.NewResourceQueries(store).List(context.Background(), "vehicle", 1, 20)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("List without kind", func(t *testing.T) {
		store := queriesmock.NewMockResourceReadStore(gomock.NewController(t))
		store.EXPECT().List(gomock.Any(), gomock.Nil(), 20, 0).Return(nil, int64(0), nil)

		_, err := queries.NewResourceQueries(store).List(context.Background(), "", 1, 20)
		require.NoError(t, err)
	})

	t.Run("List rejects unknown kind", func(t *testing.T) {
		store := queriesmock.NewMockResourceReadStore(gomock.NewController(t))
		_, err := queries.NewResourceQueries(store).List(context.Background(), "boat", 1, 20)
		assert.ErrorIs(t, err, queries.ErrInvalidKind)
	})
}

func TestUserQueries_GetCurrentUser(t *testing.T) {
	t.Run("active user", func(t *testing.T) {
		view := builder.NewUserBuilder().BuildReadModel()
		store := queriesmock.NewMockUserReadStore(gomock.NewController(t))
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		got, err := queries.NewUserQueries(store).GetCurrentUser(context.Background(), view.ID)
		require.NoError(t, err)
		assert.Equal(t, view.Email, got.Email)
	})

	t.Run("inactive user", func(t *testing.T) {
		view := builder.NewUserBuilder().AsInactive().BuildReadModel()
		store := queriesmock.NewMockUserReadStore(gomock.NewController(t))
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, err := queries.NewUserQueries(store).GetCurrentUser(context.Background(), view.ID)
		assert.ErrorIs(t, err, queries.ErrUserInactive)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := queriesmock.NewMockUserReadStore(gomock.NewController(t))
		store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, notFound())

		_, err := queries.NewUserQueries(store).GetCurrentUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, queries.ErrUserNotFound)
	})
}
