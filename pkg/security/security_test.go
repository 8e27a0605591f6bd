package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := NewTokenClaims("u1", "mmeier", "USER", "de", time.Hour)

	token, err := GenerateJWT(claims, secret)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsed, err := VerifyToken(token, secret)
	assert.NoError(t, err)
	assert.Equal(t, "u1", parsed.User)
	assert.Equal(t, "mmeier", parsed.Username)
	assert.Equal(t, "USER", parsed.Role)
	assert.Equal(t, "de", parsed.Lang)
}

func TestJWTWrongSecret(t *testing.T) {
	claims := NewTokenClaims("u1", "mmeier", "USER", "de", time.Hour)
	token, err := GenerateJWT(claims, []byte("secret-a"))
	assert.NoError(t, err)

	_, err = VerifyToken(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	claims := NewTokenClaims("u1", "mmeier", "USER", "de", -time.Minute)
	token, err := GenerateJWT(claims, []byte("secret"))
	assert.NoError(t, err)

	_, err = VerifyToken(token, []byte("secret"))
	assert.Error(t, err)
}
