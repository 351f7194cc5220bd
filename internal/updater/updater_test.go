package updater

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krema-build/krema/internal/bundler"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/events"
)

func mustSignManifest(t *testing.T, pair bundler.KeyPair, manifest ReleaseManifest) []byte {
	t.Helper()
	raw, err := json.Marshal(manifest)
	require.NoError(t, err)
	sig := bundler.Sign(pair.PrivateKey, raw)
	envelope := map[string]any{
		"manifest":  json.RawMessage(raw),
		"signature": base64.StdEncoding.EncodeToString(sig),
	}
	out, err := json.Marshal(envelope)
	require.NoError(t, err)
	return out
}

func TestUpdaterCheckReportsAvailableForANewerSignedManifest(t *testing.T) {
	pair, err := bundler.GenerateKeyPair()
	require.NoError(t, err)

	manifest := ReleaseManifest{Version: "2.0.0", Notes: "big release", DownloadURL: "http://example.invalid/app-2.0.0.bin"}
	body := mustSignManifest(t, pair, manifest)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	em := events.New()
	u := New(Config{
		Pubkey:         bundler.EncodePublicKey(pair.PublicKey),
		Endpoints:      []string{srv.URL},
		CurrentVersion: "1.0.0",
	}, em)

	available, got, err := u.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, "2.0.0", got.Version)
}

func TestUpdaterCheckReportsNotAvailableWhenManifestIsNotNewer(t *testing.T) {
	pair, err := bundler.GenerateKeyPair()
	require.NoError(t, err)

	manifest := ReleaseManifest{Version: "1.0.0", DownloadURL: "http://example.invalid/app-1.0.0.bin"}
	body := mustSignManifest(t, pair, manifest)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	u := New(Config{
		Pubkey:         bundler.EncodePublicKey(pair.PublicKey),
		Endpoints:      []string{srv.URL},
		CurrentVersion: "1.0.0",
	}, nil)

	available, _, err := u.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, available)
}

func TestUpdaterCheckRejectsAManifestSignedByTheWrongKey(t *testing.T) {
	pair, err := bundler.GenerateKeyPair()
	require.NoError(t, err)
	otherPair, err := bundler.GenerateKeyPair()
	require.NoError(t, err)

	manifest := ReleaseManifest{Version: "2.0.0", DownloadURL: "http://example.invalid/app.bin"}
	body := mustSignManifest(t, otherPair, manifest)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	u := New(Config{
		Pubkey:         bundler.EncodePublicKey(pair.PublicKey),
		Endpoints:      []string{srv.URL},
		CurrentVersion: "1.0.0",
	}, nil)

	_, _, err = u.Check(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.SignatureInvalid))
}

func TestDownloadAndVerifyChecksStagedFileChecksum(t *testing.T) {
	payload := []byte("fake installer bytes")
	sum := sha256.Sum256(payload)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	u := New(Config{StagingDir: t.TempDir()}, nil)
	manifest := ReleaseManifest{
		Version:     "2.0.0",
		DownloadURL: srv.URL + "/app.bin",
		SHA256:      hex.EncodeToString(sum[:]),
	}

	var lastDownloaded int64
	path, err := u.DownloadAndVerify(context.Background(), manifest, func(downloaded, total int64) {
		lastDownloaded = downloaded
	})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, int64(len(payload)), lastDownloaded)
}

func TestDownloadAndVerifyRejectsChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("actual bytes"))
	}))
	defer srv.Close()

	u := New(Config{StagingDir: t.TempDir()}, nil)
	manifest := ReleaseManifest{
		Version:     "2.0.0",
		DownloadURL: srv.URL + "/app.bin",
		SHA256:      "0000000000000000000000000000000000000000000000000000000000000000",
	}

	_, err := u.DownloadAndVerify(context.Background(), manifest, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.VerificationFailed))
}
