package jwtinfra

import (
	"errors"
	"testing"
	"time"

	"github.com/staHong/user-auth-account-system/internal/config"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, expiry time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(&config.Config{JWTSecret: "test-secret", JWTExpiry: expiry})
	require.NoError(t, err)
	return p
}

func TestNewProvider_MissingSecret(t *testing.T) {
	_, err := NewProvider(&config.Config{JWTExpiry: time.Hour})
	require.Error(t, err)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	tok, err := p.Sign("alice123", true, domain.KindPrimary)
	require.NoError(t, err)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice123", claims.AccountID())
	assert.True(t, claims.Paid)
	assert.Equal(t, domain.KindPrimary, claims.Kind)
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t, -time.Minute)

	tok, err := p.Sign("alice123", false, domain.KindPrimary)
	require.NoError(t, err)

	_, err = p.Verify(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
	assert.False(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerify_WrongSecret(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	other := newTestProvider(t, time.Hour)
	other.secret = []byte("different-secret")

	tok, err := p.Sign("bobsmith", false, domain.KindDelegated)
	require.NoError(t, err)

	_, err = other.Verify(tok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	_, err := p.Verify("not.a.token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenInvalid))
}
