package ssoauth

import (
	"context"

	"github.com/pquerna/otp/totp"

	"github.com/krema-build/krema/internal/errors"
)

// verifyTotp validates a 6-digit code against secret when no IdP is
// configured (spec: "validates a 6-digit TOTP code against a locally
// stored secret when no IdP is configured"), grounded in the teacher's
// MFA verification handler (api/internal/handlers/security.go) which
// calls totp.Validate(code, secret) the same way. Krema's version is a
// pure verification primitive — secret issuance/QR-code generation is a
// setup-time concern the embedding app handles with its own UI, not
// something a namespaced bridge command needs to expose.
func (p *Plugin) verifyTotp(ctx context.Context, args map[string]any) (any, error) {
	secret, _ := args["secret"].(string)
	code, _ := args["code"].(string)

	if secret == "" || code == "" {
		return nil, errors.E(errors.BadRequest, "verifyTotp requires both secret and code")
	}

	if !totp.Validate(code, secret) {
		return map[string]any{"valid": false}, nil
	}

	if err := p.cacheSessionToken("totp", secret); err != nil {
		return nil, err
	}
	return map[string]any{"valid": true}, nil
}
