package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails parsing or validation.
var ErrInvalidToken = errors.New("invalid token")

// AdminTokenService issues and verifies HMAC-signed tokens for the admin API.
type AdminTokenService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewAdminTokenService creates a new AdminTokenService
func NewAdminTokenService(secret string, expiresInSeconds int) *AdminTokenService {
	return &AdminTokenService{
		secret:    []byte(secret),
		expiresIn: time.Duration(expiresInSeconds) * time.Second,
	}
}

// Generate issues a token for the given admin subject
func (s *AdminTokenService) Generate(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(s.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token and returns its claims
func (s *AdminTokenService) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
