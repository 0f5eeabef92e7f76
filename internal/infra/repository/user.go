package repository

import (
	"context"

	"travel-booking/internal/domain/user"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"

	"github.com/google/uuid"
)

type UserWriteQueries interface {
	CreateUser(ctx context.Context, db query.DBTX, arg query.CreateUserParams) (uuid.UUID, error)
	UpdateUserLastLogin(ctx context.Context, db query.DBTX, id uuid.UUID) error
	IncrementUserEarnings(ctx context.Context, db query.DBTX, id uuid.UUID, cents int64) (int64, error)
}

type UserRepository struct {
	queries UserWriteQueries
	db      query.DBTX
}

func NewUserRepository(queries UserWriteQueries, db query.DBTX) *UserRepository {
	return &UserRepository{
		queries: queries,
		db:      db,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) (uuid.UUID, error) {
	id, err := r.queries.CreateUser(ctx, r.db, query.CreateUserParams{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
	})
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	err := r.queries.UpdateUserLastLogin(ctx, r.db, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

// AddEarnings credits an owner payout to the user's running total.
func (r *UserRepository) AddEarnings(ctx context.Context, userID uuid.UUID, cents int64) error {
	n, err := r.queries.IncrementUserEarnings(ctx, r.db, userID, cents)
	if err != nil {
		return infra.WrapRepoErr("failed to add user earnings", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}
