package commands

import (
	"context"
	"log/slog"

	"travel-booking/internal/domain/user"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/password"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEmailTaken = errs.Category("email already registered", errs.ErrConflict)

// NewUserInput is an account provisioned by an operator.
type NewUserInput struct {
	Email    string
	Name     string
	Password string
	Role     string
}

type UserCommands interface {
	CreateUser(ctx context.Context, in NewUserInput) (uuid.UUID, error)
}

type userCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewUserCommands(uow shared.UnitOfWork) UserCommands {
	return &userCommandsImpl{uow: uow}
}

func (c *userCommandsImpl) CreateUser(ctx context.Context, in NewUserInput) (uuid.UUID, error) {
	email, err := user.NewEmail(in.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}
	pw, err := user.NewPassword(in.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}
	role, err := user.NewRole(in.Role)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}

	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "hash password")
	}

	u, err := user.NewUser(email, in.Name, hash, role)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrValidation)
	}

	var id uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var createErr error
		id, createErr = tx.Users().Create(ctx, u)
		return createErr
	})
	if infra.IsConstraint(err, infra.ConstraintUserEmail) {
		return uuid.Nil, ErrEmailTaken
	}
	if err != nil {
		return uuid.Nil, err
	}

	slog.Info("user created", "user_id", id, "role", role.String())
	return id, nil
}
