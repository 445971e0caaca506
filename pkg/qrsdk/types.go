package qrsdk

import "time"

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	LoanID string  `json:"loanId"`
	Amount float64 `json:"amount"`
	UserID string  `json:"userId"`
}

// GenerateResponse carries the code to render as a QR image.
type GenerateResponse struct {
	Success   bool      `json:"success"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerifyRequest is the body of POST /verify.
type VerifyRequest struct {
	Code string `json:"code"`
}

type VerifyResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	PaymentID string `json:"paymentId"`
}

// HealthResponse is returned by /livez and /readyz. Checks is only set on
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Broker   string `json:"broker,omitempty"`
}

// ProgressEvent is the websocket message sent after each verified payment.
type ProgressEvent struct {
	Type string          `json:"type"`
	Data PaymentProgress `json:"data"`
}

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
