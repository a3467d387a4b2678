package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])
}

func TestNewAccessToken_Rejects(t *testing.T) {
	_, err := NewAccessToken("", "ops", RoleAdmin, time.Hour)
	assert.Error(t, err)
	_, err = NewAccessToken("secret", "ops", RoleAdmin, 0)
	assert.Error(t, err)
}

func TestNewAccessToken_WrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", "ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("other"), nil })
	assert.Error(t, err)
}
