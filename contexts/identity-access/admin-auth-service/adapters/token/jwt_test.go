package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuerRoundTrip(t *testing.T) {
	issuer, err := NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	signed, expiresAt, err := issuer.Issue("user-1", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	subject, err := issuer.Verify(signed, now.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	_, err = issuer.Verify(signed, now.Add(2*time.Hour))
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTIssuerRejectsForeignSecretAndMissingSecret(t *testing.T) {
	issuer, err := NewJWTIssuer("one", 0)
	require.NoError(t, err)
	other, err := NewJWTIssuer("two", 0)
	require.NoError(t, err)
	now := time.Now()

	signed, _, err := other.Issue("user-1", now)
	require.NoError(t, err)
	_, err = issuer.Verify(signed, now)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = NewJWTIssuer("  ", 0)
	require.ErrorIs(t, err, ErrMissingSecret)
}
