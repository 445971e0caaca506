package sqlite

import (
	"context"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite/gen"
)

type loansRepo struct {
	q *gen.Queries
}

func (r *loansRepo) CreateLoan(ctx context.Context, l domain.Loan) error {
	status := l.Status
	if status == "" {
		status = "active"
	}
	err := r.q.CreateLoan(ctx, gen.CreateLoanParams{
		ID:        l.ID,
		UserID:    l.UserID,
		SfdID:     l.SFDID,
		Amount:    l.Amount,
		Status:    status,
		CreatedAt: l.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *loansRepo) GetLoanByID(ctx context.Context, id string) (domain.Loan, error) {
	row, err := r.q.GetLoanByID(ctx, id)
	if err != nil {
		return domain.Loan{}, mapNotFound(err)
	}
	return mapLoan(row), nil
}
