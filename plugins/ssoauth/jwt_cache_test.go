package ssoauth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedTestToken mints a JWT with the given claims, signed with an
// arbitrary HMAC key. checkSession never verifies the signature — it only
// re-checks claims already vouched for once by go-oidc during the original
// exchange — so any key works here.
func signedTestToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestCheckSessionReportsValidForAnUnexpiredCachedToken(t *testing.T) {
	p, store := newTestPlugin()
	require.NoError(t, store.Set("idtoken:oidc", signedTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "https://idp.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})))

	result, err := p.checkSession(nil, map[string]any{"provider": "oidc"})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["valid"])
	assert.Equal(t, "user-1", m["subject"])
}

func TestCheckSessionReportsInvalidForAnExpiredCachedToken(t *testing.T) {
	p, store := newTestPlugin()
	require.NoError(t, store.Set("idtoken:oidc", signedTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})))

	result, err := p.checkSession(nil, map[string]any{"provider": "oidc"})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, m["valid"])
}

func TestCheckSessionReportsInvalidOnIssuerMismatch(t *testing.T) {
	p, store := newTestPlugin()
	require.NoError(t, store.Set("idtoken:oidc", signedTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "https://idp.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})))

	result, err := p.checkSession(nil, map[string]any{"provider": "oidc", "issuer": "https://other-idp.example.com"})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, m["valid"])
}

func TestCheckSessionReportsNoCachedSessionWhenNothingWasCached(t *testing.T) {
	p, _ := newTestPlugin()

	result, err := p.checkSession(nil, map[string]any{"provider": "oidc"})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, m["valid"])
	assert.Equal(t, "no cached session", m["reason"])
}

func TestCheckSessionDefaultsProviderToOidc(t *testing.T) {
	p, store := newTestPlugin()
	require.NoError(t, store.Set("idtoken:oidc", signedTestToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})))

	result, err := p.checkSession(nil, map[string]any{})
	require.NoError(t, err)

	m, ok := result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["valid"])
}
