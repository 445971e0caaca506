package domain

import "time"

const (
	AuditQRGenerated      = "qr.generated"
	AuditQRVerified       = "qr.verified"
	AuditQRInvalidPayload = "qr.invalid_payload"

	EntityQRToken = "qr_token"
)

type AuditLog struct {
	ID         string
	Action     string
	EntityType string
	EntityID   string
	UserID     string
	Details    string // JSON object
	CreatedAt  time.Time
}
