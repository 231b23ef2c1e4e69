package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)

	token, err := service.GenerateToken("cli")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cli", subject)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken("cli")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	service := NewJWTService("test-secret", time.Nanosecond)

	token, err := service.GenerateToken("cli")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsEmptyToken(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	_, err := service.ValidateToken("")
	assert.Error(t, err)
}

func TestJWTRejectsGarbageToken(t *testing.T) {
	service := NewJWTService("test-secret", time.Hour)
	_, err := service.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
