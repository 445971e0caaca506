package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/aussiebroadwan/qrpay/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const testPassphrase = "test-qr-encryption-key-12345"

func TestEncryptDecryptString(t *testing.T) {
	plaintext := `{"loanId":"L1","amount":5000,"userId":"U1","timestamp":"2026-01-02T03:04:05Z"}`

	encoded, err := cryptox.EncryptString(plaintext, testPassphrase)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)
	require.NotContains(t, encoded, "L1")

	decrypted, err := cryptox.DecryptString(encoded, testPassphrase)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestEncryptStringLayout(t *testing.T) {
	plaintext := "hello"

	encoded, err := cryptox.EncryptString(plaintext, testPassphrase)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Len(t, raw, cryptox.SaltSize+cryptox.NonceSize+len(plaintext)+16)
}

func TestEncryptStringFreshSaltAndNonce(t *testing.T) {
	plaintext := "same-payload"

	first, err := cryptox.EncryptString(plaintext, testPassphrase)
	require.NoError(t, err)
	second, err := cryptox.EncryptString(plaintext, testPassphrase)
	require.NoError(t, err)

	require.NotEqual(t, first, second, "identical plaintexts must produce different envelopes")

	a, _ := base64.StdEncoding.DecodeString(first)
	b, _ := base64.StdEncoding.DecodeString(second)
	require.NotEqual(t, a[:cryptox.SaltSize], b[:cryptox.SaltSize], "salt reused")
	require.NotEqual(t,
		a[cryptox.SaltSize:cryptox.SaltSize+cryptox.NonceSize],
		b[cryptox.SaltSize:cryptox.SaltSize+cryptox.NonceSize],
		"nonce reused",
	)
}

func TestEncryptStringEmptyPassphrase(t *testing.T) {
	_, err := cryptox.EncryptString("data", "")
	require.Error(t, err)
}

func TestDecryptStringWrongPassphrase(t *testing.T) {
	encoded, err := cryptox.EncryptString("secret", testPassphrase)
	require.NoError(t, err)

	_, err = cryptox.DecryptString(encoded, "another-passphrase")
	require.ErrorIs(t, err, cryptox.ErrDecryption)
}

func TestDecryptStringTamperedEveryByte(t *testing.T) {
	encoded, err := cryptox.EncryptString("tamper-me", testPassphrase)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	// Flip one bit at each position: salt, nonce, ciphertext and tag are all covered.
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		plaintext, err := cryptox.DecryptString(base64.StdEncoding.EncodeToString(tampered), testPassphrase)
		require.ErrorIs(t, err, cryptox.ErrDecryption, "byte %d", i)
		require.Empty(t, plaintext)
	}
}

func TestDecryptStringMalformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"empty", ""},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"header only", base64.StdEncoding.EncodeToString(make([]byte, cryptox.SaltSize+cryptox.NonceSize))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cryptox.DecryptString(tt.encoded, testPassphrase)
			require.ErrorIs(t, err, cryptox.ErrDecryption)
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	k1 := cryptox.DeriveKey(testPassphrase, salt)
	k2 := cryptox.DeriveKey(testPassphrase, salt)
	k3 := cryptox.DeriveKey(testPassphrase, []byte("fedcba9876543210"))

	require.Len(t, k1, cryptox.KeySize)
	require.Equal(t, k1, k2)
	require.NotEqual(t, k1, k3)
}
