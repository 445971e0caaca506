package sqlite

import (
	"context"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite/gen"
)

type paymentsRepo struct {
	q *gen.Queries
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.Payment) error {
	err := r.q.CreatePayment(ctx, gen.CreatePaymentParams{
		ID:        p.ID,
		LoanID:    p.LoanID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		CreatedAt: p.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *paymentsRepo) GetPaymentByReference(ctx context.Context, reference string) (domain.Payment, error) {
	row, err := r.q.GetPaymentByReference(ctx, reference)
	if err != nil {
		return domain.Payment{}, mapNotFound(err)
	}
	return mapPayment(row), nil
}

func (r *paymentsRepo) ListPaymentsByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	rows, err := r.q.ListPaymentsByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPayment(row))
	}
	return out, nil
}
