package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("rahasia", time.Hour)

	token, exp, err := m.GenerateJWTToken(7, "kasir.rs", "admin_rs")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ValidateJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "kasir.rs", claims.Username)
	assert.Equal(t, "admin_rs", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	token, _, err := NewJWTManager("satu", time.Hour).GenerateJWTToken(1, "a", "admin_rs")
	require.NoError(t, err)

	_, err = NewJWTManager("dua", time.Hour).ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("rahasia", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.GenerateJWTToken(1, "a", "admin_bpjs")
	require.NoError(t, err)

	_, err = m.ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "admin_rs"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("rahasia", time.Hour).ValidateJWTToken(signed)
	assert.Error(t, err)
}

func TestJWTMissingSecret(t *testing.T) {
	m := NewJWTManager("", time.Hour)
	_, _, err := m.GenerateJWTToken(1, "a", "admin_rs")
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
	_, err = m.ValidateJWTToken("x.y.z")
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}
