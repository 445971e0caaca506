package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
)

// Payload is the plaintext sealed inside a token. Field order is the
// serialisation order.
type Payload struct {
	LoanID    string  `json:"loanId"`
	Amount    float64 `json:"amount"`
	UserID    string  `json:"userId"`
	Timestamp string  `json:"timestamp"`
}

func (p Payload) Validate() error {
	if strings.TrimSpace(p.LoanID) == "" {
		return errors.New("loanId is required")
	}
	if strings.TrimSpace(p.UserID) == "" {
		return errors.New("userId is required")
	}
	if !validAmount(p.Amount) {
		return errors.New("amount must be a finite positive number")
	}
	if _, err := time.Parse(time.RFC3339Nano, p.Timestamp); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	return nil
}

// matches reports whether the payload is the one sealed for row t.
func (p Payload) matches(t domain.QRToken) bool {
	return p.LoanID == t.LoanID && p.UserID == t.UserID && p.Amount == t.Amount
}

func parsePayload(plaintext string) (Payload, error) {
	dec := json.NewDecoder(strings.NewReader(plaintext))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Payload{}, errors.New("decode payload: trailing data")
	}
	if err := p.Validate(); err != nil {
		return Payload{}, err
	}
	return p, nil
}

func marshalPayload(p Payload) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
