package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("abc-123")
	fp1b := FingerprintToken("abc-123")
	fp2 := FingerprintToken("abc-124")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "SHA-256 base64url should be 43 chars")
}

func TestShortFingerprint(t *testing.T) {
	short := ShortFingerprint("abc-123")
	require.Len(t, short, 12)
	require.Equal(t, FingerprintToken("abc-123")[:12], short)
}
