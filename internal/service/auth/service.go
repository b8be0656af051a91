package auth

import (
	"context"

	"github.com/expensio/expense-backend-go/internal/domain/auth"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/expensio/expense-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Service verifies credentials and issues access tokens. Everything beyond
// that (sessions, refresh rotation, providers) stays outside this core.
type Service struct {
	users user.Repository
	jwt   jwt.Service
}

func NewService(users user.Repository, jwtService jwt.Service) *Service {
	return &Service{
		users: users,
		jwt:   jwtService,
	}
}

func (s *Service) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.Roles)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.ToResponse(u),
	}, nil
}
