package commands

import (
	"context"
	"log/slog"

	"travel-booking/internal/domain/user"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/jwt"
	"travel-booking/internal/pkg/password"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=../../mock/commands/$GOFILE -package=commandsmock

var (
	ErrInvalidCredentials = errs.Category("invalid credentials", errs.ErrUnauthorized)
	ErrUserInactive       = errs.Category("user inactive", errs.ErrForbidden)
	ErrTokenValidation    = errs.Category("invalid or expired token", errs.ErrUnauthorized)
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginResult struct {
	UserID    uuid.UUID
	Role      user.Role
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	snapshot, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(snapshot.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored user role")
	}

	pair, err := a.issue(snapshot.ID, role)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, snapshot.ID)
	})
	if err != nil {
		// login already succeeded; last_login is informational
		slog.Warn("failed to update last login", "user_id", snapshot.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:    snapshot.ID,
		Role:      role,
		TokenPair: pair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	userID := claims.UserID

	// role may have changed since the refresh token was issued
	snapshot, err := a.uow.CommandReads().UserByID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTokenValidation
		}
		return nil, err
	}
	if !snapshot.IsActive {
		return nil, ErrUserInactive
	}

	role, err := user.NewRole(snapshot.Role)
	if err != nil {
		return nil, errs.Wrap(err, "stored user role")
	}
	return a.issue(userID, role)
}

func (a *authCommandsImpl) issue(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*shared.UserSnapshot, error) {
	snapshot, err := a.uow.CommandReads().UserByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// Same error as a password mismatch to prevent user enumeration attacks
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.ComparePassword(snapshot.PasswordHash, credentials.Password()); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !snapshot.IsActive {
		return nil, ErrUserInactive
	}

	return snapshot, nil
}
