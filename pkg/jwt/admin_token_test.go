package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	service := NewAdminTokenService("secret", 3600)

	token, err := service.Generate("admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewAdminTokenService("secret-a", 3600).Generate("admin@example.com")
	require.NoError(t, err)

	_, err = NewAdminTokenService("secret-b", 3600).Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	service := NewAdminTokenService("secret", -60)

	token, err := service.Generate("admin@example.com")
	require.NoError(t, err)

	_, err = service.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewAdminTokenService("secret", 3600).Verify("not.a.token")
	require.Error(t, err)
}
