package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/auth"
	"cablestock-service/internal/models"
)

// AuthService issues tokens for active users.
type AuthService struct {
	users     UserStore
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(users UserStore, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry}
}

// Login verifies the credentials and returns a signed token. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetActiveByID(ctx, req.UserID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to resolve user", err)
	}
	if user == nil {
		return nil, apperrors.NewValidation("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.NewValidation("invalid credentials")
	}

	token, expiresAt, err := auth.GenerateToken(s.jwtSecret, user, s.jwtExpiry)
	if err != nil {
		return nil, apperrors.NewInternal("failed to sign token", err)
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.UserID,
		Role:      user.Role,
	}, nil
}
