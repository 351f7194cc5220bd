// Package ssoauth is Krema's bundled reference plugin (SPEC_FULL.md §4.15):
// corporate SSO inside the webview, covering OIDC authorization-code-with-
// PKCE via a loopback redirect, SAML via a loopback Assertion Consumer
// Service, and a TOTP fallback for deployments with no IdP configured.
//
// Grounded directly in the teacher's api/internal/auth package (oidc.go,
// saml.go, jwt.go) and its two standalone SSO plugins
// (plugins/streamspace-auth-oauth, plugins/streamspace-auth-saml) — the
// closest precedent in the pack for "a self-contained plugin wrapping one
// SSO protocol" — adapted from StreamSpace's server-side login routes to
// Krema's loopback-redirect, webview-fronted command model. Auto-registers
// as a builtin the way SPEC_FULL.md §4.9a describes: an init() calling
// plugins.RegisterBuiltin against the process-global registry.
package ssoauth

import (
	"github.com/krema-build/krema/internal/capability/securestorage"
	"github.com/krema-build/krema/internal/plugins"
	"github.com/krema-build/krema/internal/registry"
)

func init() {
	plugins.RegisterBuiltin("ssoauth", func() plugins.Handler { return &Plugin{} })
}

// Plugin implements plugins.Handler. Commands are namespaced ssoauth:* so
// they cannot collide with core commands or another plugin's names.
type Plugin struct {
	ctx     *plugins.Context
	secrets securestorage.Store
}

// Manifest implements plugins.Handler.
func (p *Plugin) Manifest() plugins.Manifest {
	return plugins.Manifest{Name: "ssoauth", Version: "0.1.0"}
}

// requiredCapabilities is shared by the two login commands: net:http to reach
// the IdP and run the loopback callback listener, shell:open to launch the
// system browser, securestorage:write to cache the resulting session token.
var requiredCapabilities = []string{"net:http", "shell:open", "securestorage:write"}

// Init implements plugins.Handler: registers ssoauth's four commands
// against ctx.Commands.
func (p *Plugin) Init(ctx *plugins.Context) error {
	p.ctx = ctx
	p.secrets = securestorage.New("com.krema.ssoauth")

	commands := []*registry.Descriptor{
		{
			Name: "ssoauth:startOidcLogin",
			Params: []registry.Param{
				{Name: "providerUrl", Type: registry.TypeString, Required: true},
				{Name: "clientId", Type: registry.TypeString, Required: true},
				{Name: "clientSecret", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "scopes", Type: registry.TypeArray, Required: false, Default: []any{}},
			},
			RequiredCapabilities: requiredCapabilities,
			Handler:              p.startOidcLogin,
		},
		{
			Name: "ssoauth:startSamlLogin",
			Params: []registry.Param{
				{Name: "entityId", Type: registry.TypeString, Required: true},
				{Name: "metadataUrl", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "metadataXml", Type: registry.TypeString, Required: false, Default: ""},
			},
			RequiredCapabilities: requiredCapabilities,
			Handler:              p.startSamlLogin,
		},
		{
			Name: "ssoauth:verifyTotp",
			Params: []registry.Param{
				{Name: "secret", Type: registry.TypeString, Required: true},
				{Name: "code", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"securestorage:write"},
			Handler:              p.verifyTotp,
		},
		{
			Name: "ssoauth:checkSession",
			Params: []registry.Param{
				{Name: "provider", Type: registry.TypeString, Required: false, Default: "oidc"},
				{Name: "issuer", Type: registry.TypeString, Required: false, Default: ""},
			},
			RequiredCapabilities: []string{"securestorage:write"},
			Handler:              p.checkSession,
		},
	}

	for _, d := range commands {
		if err := ctx.Commands.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// cacheSessionToken stashes a value under the provider-scoped key
// "session:<provider>" so a later launch (or another ssoauth command) can
// recover it without re-running the interactive flow. The value is the
// OIDC access token, the SP entity ID after a SAML login, or the TOTP
// secret after a successful verification.
func (p *Plugin) cacheSessionToken(provider, token string) error {
	return p.secrets.Set("session:"+provider, token)
}

// cacheIDToken stashes the raw OIDC ID token so ssoauth:checkSession can
// re-verify claims locally on a later launch without a round trip to the IdP.
func (p *Plugin) cacheIDToken(provider, rawIDToken string) error {
	return p.secrets.Set("idtoken:"+provider, rawIDToken)
}
