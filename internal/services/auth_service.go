package services

import (
	"context"

	"github.com/cesarbot/kudos-backend/internal/config"
	"github.com/cesarbot/kudos-backend/internal/models"
	"github.com/cesarbot/kudos-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates the operator credential from config and issues
// tokens for the admin API.
type AuthService struct {
	adminEmail   string
	passwordHash string
	tokens       *jwt.AdminTokenService
	expiresIn    int
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		adminEmail:   cfg.Admin.Email,
		passwordHash: cfg.Admin.PasswordHash,
		tokens:       jwt.NewAdminTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		expiresIn:    cfg.JWT.ExpiresIn,
	}
}

// Login checks the credential and returns a signed token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if s.adminEmail == "" || req.Email != s.adminEmail {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(req.Email)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, ExpiresIn: s.expiresIn}, nil
}
