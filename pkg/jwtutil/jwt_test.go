package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "secret", Expiration: time.Hour})

	token, err := j.GenerateToken("a1", "admin", true)
	require.NoError(t, err)

	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.ID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{SigningKey: "secret", Expiration: time.Minute})
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.GenerateToken("a1", "admin", true)
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	issuer := NewJWTUtil(&JWTConfig{SigningKey: "other", Expiration: time.Hour})
	token, err := issuer.GenerateToken("a1", "admin", true)
	require.NoError(t, err)

	j := NewJWTUtil(&JWTConfig{SigningKey: "secret", Expiration: time.Hour})
	_, err = j.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		ID: "a1", Username: "admin", IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	j := NewJWTUtil(&JWTConfig{SigningKey: "secret", Expiration: time.Hour})
	_, err = j.ValidateToken(token)
	assert.Error(t, err)
}

func TestMissingSigningKey(t *testing.T) {
	j := NewJWTUtil(&JWTConfig{})
	_, err := j.GenerateToken("a1", "admin", true)
	assert.Error(t, err)
}
