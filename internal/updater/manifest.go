// Package updater implements the update pipeline (spec §4.13): fetch a
// signed release manifest from one of several configured endpoints, verify
// it, compare versions, and — on user consent — download and checksum the
// installer package, handing off the actual install to the platform on
// exit.
//
// Scheduling is grounded directly in the teacher's internal/plugins
// scheduler.go: a shared *cron.Cron wrapped by a small type that owns one
// named job and can reschedule or stop it, the same "one cron.Cron,
// AddFunc/Remove by EntryID" shape used there for plugin-scheduled jobs.
package updater

import (
	"encoding/json"

	"github.com/krema-build/krema/internal/bundler"
	"github.com/krema-build/krema/internal/errors"
)

// ReleaseManifest is the JSON document an update endpoint serves.
type ReleaseManifest struct {
	Version      string `json:"version"`
	Notes        string `json:"notes"`
	DownloadURL  string `json:"downloadUrl"`
	SHA256       string `json:"sha256"`
	SizeBytes    int64  `json:"sizeBytes"`
	MinOSVersion string `json:"minOsVersion,omitempty"`
}

// signedManifestEnvelope carries the manifest's raw bytes next to their
// signature, since the signature covers the raw bytes, not the
// re-marshaled struct.
type signedManifestEnvelope struct {
	Manifest  json.RawMessage `json:"manifest"`
	Signature string          `json:"signature"` // base64 ed25519 signature over Manifest's raw bytes
}

// parseAndVerify decodes the signed envelope, checks its signature against
// pubkey, and returns the manifest it vouches for. This is the update
// pipeline's first gate (spec: "verifies its signature against a configured
// public key") — a manifest that fails verification is never acted on,
// regardless of what it claims.
func parseAndVerify(body []byte, pubkeyEncoded string) (ReleaseManifest, error) {
	var envelope signedManifestEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ReleaseManifest{}, errors.Wrap(errors.SerializationError, "parse update manifest envelope", err)
	}

	pubkey, err := bundler.DecodePublicKey(pubkeyEncoded)
	if err != nil {
		return ReleaseManifest{}, err
	}

	signature, err := decodeBase64Signature(envelope.Signature)
	if err != nil {
		return ReleaseManifest{}, err
	}

	if !bundler.Verify(pubkey, envelope.Manifest, signature) {
		return ReleaseManifest{}, errors.E(errors.SignatureInvalid, "update manifest signature verification failed")
	}

	var manifest ReleaseManifest
	if err := json.Unmarshal(envelope.Manifest, &manifest); err != nil {
		return ReleaseManifest{}, errors.Wrap(errors.SerializationError, "parse update manifest", err)
	}
	if manifest.Version == "" || manifest.DownloadURL == "" {
		return ReleaseManifest{}, errors.E(errors.ConfigInvalid, "update manifest missing version or downloadUrl")
	}
	return manifest, nil
}
