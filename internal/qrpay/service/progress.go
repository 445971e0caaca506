package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
)

// Snapshot builds the payment progress of a loan from the ledger. An unknown
// loan yields zero progress with the payments that reference it.
func (s *QRTokenService) Snapshot(ctx context.Context, loanID, userID string, sec domain.SecurityData) (domain.PaymentProgress, error) {
	payments, err := s.Store.Payments().ListPaymentsByLoan(ctx, loanID)
	if err != nil {
		return domain.PaymentProgress{}, fmt.Errorf("list payments: %w", err)
	}

	var total float64
	loan, err := s.Store.Loans().GetLoanByID(ctx, loanID)
	switch {
	case err == nil:
		total = loan.Amount
	case errors.Is(err, store.ErrNotFound):
	default:
		return domain.PaymentProgress{}, fmt.Errorf("get loan: %w", err)
	}

	paid, remaining, progress := computeProgress(total, payments)

	history := make([]domain.PaymentHistory, 0, len(payments))
	for _, p := range payments {
		history = append(history, domain.PaymentHistory{
			ID:        p.ID,
			Amount:    p.Amount,
			Method:    p.Method,
			Reference: p.Reference,
			CreatedAt: p.CreatedAt,
		})
	}

	return domain.PaymentProgress{
		LoanID:          loanID,
		UserID:          userID,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		Progress:        progress,
		SecurityData:    sec,
		PaymentHistory:  history,
	}, nil
}

// computeProgress returns the paid and remaining amounts and the percentage
// paid of total, each rounded to two decimals. progress is capped at 100 and
// is 0 when total is not positive.
func computeProgress(total float64, payments []domain.Payment) (paid, remaining, progress float64) {
	for _, p := range payments {
		paid += p.Amount
	}
	paid = round2(paid)
	remaining = round2(math.Max(total-paid, 0))
	if total > 0 {
		progress = round2(math.Min(paid/total*100, 100))
	}
	return paid, remaining, progress
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
