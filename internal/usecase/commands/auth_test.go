//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"travel-booking/internal/domain/user"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/jwt"
	"travel-booking/internal/pkg/password"
	"travel-booking/internal/testutil/authtest"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthCommandsTestSuite struct {
	suite.Suite
	store    *memStore
	jwt      *authtest.JWTHelper
	commands commands.AuthCommands
	active   shared.UserSnapshot
}

func TestAuthCommandsSuite(t *testing.T) {
	suite.Run(t, new(AuthCommandsTestSuite))
}

func (s *AuthCommandsTestSuite) SetupTest() {
	s.store = newMemStore()
	s.jwt = authtest.NewJWTHelper(config.NewTestConfig().JWT)
	s.commands = commands.NewAuthCommands(s.store, s.jwt.Service(s.T()))

	hash, err := password.HashPasswordWithCost("password123", 4)
	s.Require().NoError(err)
	s.active = shared.UserSnapshot{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		Name:         "Olivia Owner",
		Role:         user.RoleOwner.String(),
		IsActive:     true,
		PasswordHash: hash,
	}
	s.store.addUser(s.active)

	inactive := s.active
	inactive.ID = uuid.New()
	inactive.Email = "gone@example.com"
	inactive.IsActive = false
	s.store.addUser(inactive)
}

func (s *AuthCommandsTestSuite) TestLogin() {
	s.Run("success: issues an access and refresh pair", func() {
		result, err := s.commands.Login(context.Background(), reqdto.LoginRequest{Email: "owner@example.com", Password: "password123"})
		s.Require().NoError(err)

		s.Equal(s.active.ID, result.UserID)
		s.Equal(user.RoleOwner, result.Role)

		claims, err := s.jwt.Service(s.T()).ValidateToken(result.TokenPair.AccessToken)
		s.Require().NoError(err)
		s.Equal(jwt.TokenTypeAccess, claims.TokenType)
		s.Equal(s.active.ID, claims.UserID)

		claims, err = s.jwt.Service(s.T()).ValidateToken(result.TokenPair.RefreshToken)
		s.Require().NoError(err)
		s.Equal(jwt.TokenTypeRefresh, claims.TokenType)

		s.Equal(1, s.store.state.logins[s.active.ID])
	})

	s.Run("success: last login failure does not block the login", func() {
		s.store.failNext("Users.UpdateLastLogin", errors.New("connection reset"))
		_, err := s.commands.Login(context.Background(), reqdto.LoginRequest{Email: "owner@example.com", Password: "password123"})
		s.NoError(err)
	})
}

func (s *AuthCommandsTestSuite) TestLogin_Errors() {
	testCases := []struct {
		name   string
		req    reqdto.LoginRequest
		target error
	}{
		{name: "wrong password", req: reqdto.LoginRequest{Email: "owner@example.com", Password: "wrongpassword"}, target: commands.ErrInvalidCredentials},
		{name: "unknown email", req: reqdto.LoginRequest{Email: "nobody@example.com", Password: "password123"}, target: commands.ErrInvalidCredentials},
		{name: "inactive account", req: reqdto.LoginRequest{Email: "gone@example.com", Password: "password123"}, target: commands.ErrUserInactive},
		{name: "malformed email", req: reqdto.LoginRequest{Email: "not-an-email", Password: "password123"}, target: errs.ErrValidation},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			result, err := s.commands.Login(context.Background(), tc.req)
			s.Nil(result)
			s.True(errs.Is(err, tc.target), "got %v", err)
		})
	}

	s.Run("unknown email and wrong password look the same", func() {
		_, unknown := s.commands.Login(context.Background(), reqdto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
		_, wrong := s.commands.Login(context.Background(), reqdto.LoginRequest{Email: "owner@example.com", Password: "wrongpassword"})
		s.Equal(unknown.Error(), wrong.Error())
	})
}

func (s *AuthCommandsTestSuite) TestRefreshToken() {
	s.Run("success: refresh token yields a new pair", func() {
		refresh := s.jwt.GenerateRefreshToken(s.T(), s.active.ID, user.RoleOwner)
		pair, err := s.commands.RefreshToken(context.Background(), refresh)
		s.Require().NoError(err)
		s.NotEmpty(pair.AccessToken)
		s.NotEmpty(pair.RefreshToken)
	})

	s.Run("error: access token is not accepted", func() {
		access := s.jwt.GenerateToken(s.T(), s.active.ID, user.RoleOwner)
		_, err := s.commands.RefreshToken(context.Background(), access)
		s.ErrorIs(err, commands.ErrTokenValidation)
	})

	s.Run("error: garbage token", func() {
		_, err := s.commands.RefreshToken(context.Background(), "not.a.token")
		s.True(errs.Is(err, errs.ErrUnauthorized))
	})

	s.Run("error: user no longer exists", func() {
		refresh := s.jwt.GenerateRefreshToken(s.T(), uuid.New(), user.RoleGuest)
		_, err := s.commands.RefreshToken(context.Background(), refresh)
		s.ErrorIs(err, commands.ErrTokenValidation)
	})
}
