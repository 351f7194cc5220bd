package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyPairRoundTripsThroughEncodingAndSignatureVerification(t *testing.T) {
	pair, err := GenerateKeyPair()
	require.NoError(t, err)

	encodedPub := EncodePublicKey(pair.PublicKey)
	encodedPriv := EncodePrivateKey(pair.PrivateKey)

	decodedPub, err := DecodePublicKey(encodedPub)
	require.NoError(t, err)
	decodedPriv, err := DecodePrivateKey(encodedPriv)
	require.NoError(t, err)

	manifest := []byte(`{"version":"1.2.3","notes":"fixes"}`)
	signature := Sign(decodedPriv, manifest)

	assert.True(t, Verify(decodedPub, manifest, signature))
}

func TestVerifyRejectsATamperedManifest(t *testing.T) {
	pair, err := GenerateKeyPair()
	require.NoError(t, err)

	manifest := []byte(`{"version":"1.2.3"}`)
	signature := Sign(pair.PrivateKey, manifest)

	tampered := []byte(`{"version":"9.9.9"}`)
	assert.False(t, Verify(pair.PublicKey, tampered, signature))
}

func TestDecodePublicKeyRejectsWrongLength(t *testing.T) {
	_, err := DecodePublicKey("dG9vc2hvcnQ=") // "tooshort" base64, wrong length
	require.Error(t, err)
}
