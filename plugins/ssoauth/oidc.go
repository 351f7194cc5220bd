package ssoauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/krema-build/krema/internal/errors"
)

// loginTimeout bounds how long startOidcLogin/startSamlLogin wait on the
// user completing the IdP flow in their browser before giving up.
const loginTimeout = 5 * time.Minute

type oidcCallback struct {
	code string
	err  error
}

// startOidcLogin runs the authorization-code-with-PKCE flow against an
// OIDC-discoverable IdP (spec: "opens the system browser to the IdP's
// authorization endpoint with PKCE, listens on a loopback redirect URI,
// exchanges the code"), grounded in the teacher's OIDCAuthenticator
// (api/internal/auth/oidc.go): provider discovery via oidc.NewProvider,
// oauth2.Config built from the discovered endpoint, ID token verification
// via provider.Verifier. PKCE and the loopback listener are Krema-specific
// additions a server-side web app doesn't need but a desktop app does,
// since there's no server-held session to carry the client secret safely.
func (p *Plugin) startOidcLogin(ctx context.Context, args map[string]any) (any, error) {
	providerURL, _ := args["providerUrl"].(string)
	clientID, _ := args["clientId"].(string)
	clientSecret, _ := args["clientSecret"].(string)
	scopes := stringSlice(args["scopes"])
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	provider, err := oidc.NewProvider(ctx, providerURL)
	if err != nil {
		return nil, errors.Wrap(errors.TransientSystem, "discover oidc provider", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(errors.IO, "bind oidc loopback redirect listener", err)
	}
	redirectURI := fmt.Sprintf("http://%s/callback", listener.Addr().String())

	oauthConfig := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Endpoint:     provider.Endpoint(),
		Scopes:       scopes,
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})

	state := randomToken()
	codeVerifier := oauth2.GenerateVerifier()
	resultCh := make(chan oidcCallback, 1)

	srv := newLoopbackCallbackServer(listener, func(c *gin.Context) {
		if c.Query("state") != state {
			resultCh <- oidcCallback{err: errors.E(errors.BadRequest, "oidc state mismatch")}
			c.String(http.StatusBadRequest, "state mismatch, you may close this window.")
			return
		}
		if errMsg := c.Query("error"); errMsg != "" {
			resultCh <- oidcCallback{err: errors.E(errors.HandlerFault, "oidc provider error: "+errMsg)}
			c.String(http.StatusOK, "Authentication failed, you may close this window.")
			return
		}
		resultCh <- oidcCallback{code: c.Query("code")}
		c.String(http.StatusOK, "Authentication complete, you may close this window.")
	})
	defer srv.Close()

	authURL := oauthConfig.AuthCodeURL(state, oauth2.S256ChallengeOption(codeVerifier))
	if err := browserOpen(ctx, authURL); err != nil {
		return nil, err
	}

	select {
	case result := <-resultCh:
		if result.err != nil {
			return nil, result.err
		}
		return p.exchangeOidcCode(ctx, oauthConfig, verifier, result.code, codeVerifier)
	case <-time.After(loginTimeout):
		return nil, errors.E(errors.Timeout, "oidc login timed out waiting for browser redirect")
	case <-ctx.Done():
		return nil, errors.E(errors.Timeout, "oidc login canceled")
	}
}

func (p *Plugin) exchangeOidcCode(ctx context.Context, oauthConfig *oauth2.Config, verifier *oidc.IDTokenVerifier, code, codeVerifier string) (any, error) {
	token, err := oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, errors.Wrap(errors.HandlerFault, "exchange oidc authorization code", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.E(errors.HandlerFault, "oidc token response missing id_token")
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(errors.SignatureInvalid, "verify oidc id token", err)
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(errors.SerializationError, "decode oidc id token claims", err)
	}

	if err := p.cacheSessionToken("oidc", token.AccessToken); err != nil {
		return nil, err
	}
	if err := p.cacheIDToken("oidc", rawIDToken); err != nil {
		return nil, err
	}

	return map[string]any{"subject": idToken.Subject, "claims": claims}, nil
}

func randomToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func stringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
