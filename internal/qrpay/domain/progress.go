package domain

import "time"

// PaymentProgress is the snapshot broadcast to live clients after a
// successful verification.
type PaymentProgress struct {
	LoanID          string           `json:"loanId"`
	UserID          string           `json:"userId"`
	PaidAmount      float64          `json:"paidAmount"`
	RemainingAmount float64          `json:"remainingAmount"`
	Progress        float64          `json:"progress"`
	SecurityData    SecurityData     `json:"securityData"`
	PaymentHistory  []PaymentHistory `json:"paymentHistory"`
}

type SecurityData struct {
	QRCode string    `json:"qrCode"`
	Method string    `json:"method"`
	UsedAt time.Time `json:"usedAt"`
}

type PaymentHistory struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}
