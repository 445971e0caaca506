package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/jmoiron/sqlx"
)

type loanRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	SFDID     string    `db:"sfd_id"`
	Amount    float64   `db:"amount"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type loansRepo struct {
	db sqlx.ExtContext
}

func (r *loansRepo) CreateLoan(ctx context.Context, l domain.Loan) error {
	status := l.Status
	if status == "" {
		status = "active"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loans (id, user_id, sfd_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, l.ID, l.UserID, l.SFDID, l.Amount, status, l.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *loansRepo) GetLoanByID(ctx context.Context, id string) (domain.Loan, error) {
	var row loanRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, user_id, sfd_id, amount, status, created_at
		FROM loans WHERE id = $1
	`, id)
	if err != nil {
		return domain.Loan{}, mapNotFound(err)
	}
	return domain.Loan{
		ID:        row.ID,
		UserID:    row.UserID,
		SFDID:     row.SFDID,
		Amount:    row.Amount,
		Status:    row.Status,
		CreatedAt: row.CreatedAt.UTC(),
	}, nil
}
