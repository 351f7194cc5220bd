package ssoauth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/krema-build/krema/internal/errors"
)

// checkSession re-verifies a previously cached OIDC ID token locally, so the
// frontend can learn a session obviously expired without waiting on a round
// trip to the IdP. Signature verification already happened once, over the
// network, in exchangeOidcCode via the oidc.IDTokenVerifier; this command
// only rechecks the claims that can go stale between launches — expiry and,
// optionally, issuer.
//
// Grounded in the teacher's api/internal/auth/jwt.go, which parses a cached
// bearer token with golang-jwt on every request rather than re-hitting the
// IdP; Krema's version runs once per launch instead of once per request.
func (p *Plugin) checkSession(ctx context.Context, args map[string]any) (any, error) {
	provider, _ := args["provider"].(string)
	if provider == "" {
		provider = "oidc"
	}
	wantIssuer, _ := args["issuer"].(string)

	rawIDToken, ok, err := p.secrets.Get("idtoken:" + provider)
	if err != nil {
		return nil, errors.Wrap(errors.HandlerFault, "read cached id token", err)
	}
	if !ok {
		return map[string]any{"valid": false, "reason": "no cached session"}, nil
	}

	claims, err := parseCachedIDToken(rawIDToken, wantIssuer)
	if err != nil {
		return map[string]any{"valid": false, "reason": err.Error()}, nil
	}

	return map[string]any{
		"valid":   true,
		"subject": claims.Subject,
		"expires": claims.ExpiresAt.Time,
	}, nil
}

// parseCachedIDToken parses rawIDToken without re-checking its signature
// (jwt.NewParser().ParseUnverified) and reports whether its registered
// claims still describe a live session.
func parseCachedIDToken(rawIDToken, wantIssuer string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, &claims); err != nil {
		return nil, errors.Wrap(errors.VerificationFailed, "parse cached id token", err)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.E(errors.VerificationFailed, "cached session expired")
	}
	if wantIssuer != "" && claims.Issuer != wantIssuer {
		return nil, errors.E(errors.VerificationFailed, "cached session issuer mismatch")
	}
	return &claims, nil
}
