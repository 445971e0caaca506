package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/jmoiron/sqlx"
)

type qrTokenRow struct {
	Code          string       `db:"code"`
	EncryptedData string       `db:"encrypted_data"`
	UserID        string       `db:"user_id"`
	LoanID        string       `db:"loan_id"`
	Amount        float64      `db:"amount"`
	ExpiresAt     time.Time    `db:"expires_at"`
	Used          bool         `db:"used"`
	UsedAt        sql.NullTime `db:"used_at"`
	CreatedAt     time.Time    `db:"created_at"`
}

func (r qrTokenRow) toDomain() domain.QRToken {
	t := domain.QRToken{
		Code:          r.Code,
		EncryptedData: r.EncryptedData,
		UserID:        r.UserID,
		LoanID:        r.LoanID,
		Amount:        r.Amount,
		ExpiresAt:     r.ExpiresAt.UTC(),
		Used:          r.Used,
		CreatedAt:     r.CreatedAt.UTC(),
	}
	if r.UsedAt.Valid {
		usedAt := r.UsedAt.Time.UTC()
		t.UsedAt = &usedAt
	}
	return t
}

const qrTokenColumns = `code, encrypted_data, user_id, loan_id, amount, expires_at, used, used_at, created_at`

type qrTokensRepo struct {
	db sqlx.ExtContext
}

func (r *qrTokensRepo) CreateToken(ctx context.Context, t domain.QRToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO qr_tokens (code, encrypted_data, user_id, loan_id, amount, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`, t.Code, t.EncryptedData, t.UserID, t.LoanID, t.Amount, t.ExpiresAt.UTC(), t.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *qrTokensRepo) GetUnusedByCode(ctx context.Context, code string) (domain.QRToken, error) {
	var row qrTokenRow
	err := sqlx.GetContext(ctx, r.db, &row,
		`SELECT `+qrTokenColumns+` FROM qr_tokens WHERE code = $1 AND used = FALSE`, code)
	if err != nil {
		return domain.QRToken{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *qrTokensRepo) GetByCode(ctx context.Context, code string) (domain.QRToken, error) {
	var row qrTokenRow
	err := sqlx.GetContext(ctx, r.db, &row,
		`SELECT `+qrTokenColumns+` FROM qr_tokens WHERE code = $1`, code)
	if err != nil {
		return domain.QRToken{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *qrTokensRepo) ConsumeToken(ctx context.Context, code string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE qr_tokens SET used = TRUE, used_at = $1
		WHERE code = $2 AND used = FALSE
	`, usedAt.UTC(), code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *qrTokensRepo) DeleteStaleTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM qr_tokens WHERE used = FALSE AND expires_at < $1`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
