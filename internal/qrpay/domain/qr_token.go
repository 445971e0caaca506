package domain

import "time"

// QRToken backs one issued QR code. It is created unused, consumed at most
// once and then kept as an audit record.
type QRToken struct {
	Code          string // random UUID rendered into the QR image
	EncryptedData string // base64(salt || iv || ciphertext+tag)
	UserID        string
	LoanID        string
	Amount        float64
	ExpiresAt     time.Time
	Used          bool
	UsedAt        *time.Time
	CreatedAt     time.Time
}

// Expired reports whether the token can no longer be consumed at now.
// A token presented exactly at ExpiresAt is still valid.
func (t QRToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
