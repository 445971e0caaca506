package domain

import "time"

const PaymentMethodQRCode = "qr_code"

// Payment is the ledger row written when a QR token is consumed. Reference
// holds the token code and is unique, so one token maps to one payment.
type Payment struct {
	ID        string
	LoanID    string
	UserID    string
	Amount    float64
	Method    string
	Reference string
	CreatedAt time.Time
}
