package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/jmoiron/sqlx"
)

type paymentRow struct {
	ID        string    `db:"id"`
	LoanID    string    `db:"loan_id"`
	UserID    string    `db:"user_id"`
	Amount    float64   `db:"amount"`
	Method    string    `db:"method"`
	Reference string    `db:"reference"`
	CreatedAt time.Time `db:"created_at"`
}

func (r paymentRow) toDomain() domain.Payment {
	return domain.Payment{
		ID:        r.ID,
		LoanID:    r.LoanID,
		UserID:    r.UserID,
		Amount:    r.Amount,
		Method:    r.Method,
		Reference: r.Reference,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type paymentsRepo struct {
	db sqlx.ExtContext
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, loan_id, user_id, amount, method, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.LoanID, p.UserID, p.Amount, p.Method, p.Reference, p.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *paymentsRepo) GetPaymentByReference(ctx context.Context, reference string) (domain.Payment, error) {
	var row paymentRow
	err := sqlx.GetContext(ctx, r.db, &row, `
		SELECT id, loan_id, user_id, amount, method, reference, created_at
		FROM payments WHERE reference = $1
	`, reference)
	if err != nil {
		return domain.Payment{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *paymentsRepo) ListPaymentsByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	var rows []paymentRow
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id, loan_id, user_id, amount, method, reference, created_at
		FROM payments WHERE loan_id = $1
		ORDER BY created_at DESC, id DESC
	`, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
