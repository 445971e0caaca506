package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Envelope layout and key derivation parameters. Changing any of these
// invalidates every envelope already issued.
const (
	SaltSize      = 16
	NonceSize     = 12
	KeySize       = 32 // AES-256
	KDFIterations = 100_000

	tagSize = 16
)

// ErrDecryption is returned for any envelope that cannot be authenticated:
// bad encoding, short input, wrong passphrase or a modified ciphertext.
var ErrDecryption = errors.New("cryptox: decryption failed")

// DeriveKey stretches a passphrase into an AES-256 key with PBKDF2-HMAC-SHA256.
func DeriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, KDFIterations, KeySize, sha256.New)
}

// EncryptString seals plaintext under a key derived from passphrase.
//
// A fresh salt and nonce are drawn for every call, so encrypting the same
// plaintext twice never yields the same envelope. The result is
// base64(salt[16] || nonce[12] || ciphertext || tag[16]).
func EncryptString(plaintext, passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("cryptox: empty passphrase")
	}

	buf := make([]byte, SaltSize+NonceSize, SaltSize+NonceSize+len(plaintext)+tagSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate salt and nonce: %w", err)
	}
	salt, nonce := buf[:SaltSize], buf[SaltSize:]

	gcm, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	// Seal appends ciphertext and tag after salt||nonce.
	sealed := gcm.Seal(buf, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString opens an envelope produced by EncryptString.
func DecryptString(encoded, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", ErrDecryption)
	}
	if len(raw) < SaltSize+NonceSize+tagSize {
		return "", fmt.Errorf("%w: envelope too short", ErrDecryption)
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	ciphertext := raw[SaltSize+NonceSize:]

	gcm, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
