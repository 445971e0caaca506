package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite/gen"
)

type qrTokensRepo struct {
	q *gen.Queries
}

func (r *qrTokensRepo) CreateToken(ctx context.Context, t domain.QRToken) error {
	err := r.q.CreateQRToken(ctx, gen.CreateQRTokenParams{
		Code:          t.Code,
		EncryptedData: t.EncryptedData,
		UserID:        t.UserID,
		LoanID:        t.LoanID,
		Amount:        t.Amount,
		ExpiresAt:     t.ExpiresAt.UTC(),
		CreatedAt:     t.CreatedAt.UTC(),
	})
	return mapConstraint(err)
}

func (r *qrTokensRepo) GetUnusedByCode(ctx context.Context, code string) (domain.QRToken, error) {
	row, err := r.q.GetUnusedQRTokenByCode(ctx, code)
	if err != nil {
		return domain.QRToken{}, mapNotFound(err)
	}
	return mapQRToken(row), nil
}

func (r *qrTokensRepo) GetByCode(ctx context.Context, code string) (domain.QRToken, error) {
	row, err := r.q.GetQRTokenByCode(ctx, code)
	if err != nil {
		return domain.QRToken{}, mapNotFound(err)
	}
	return mapQRToken(row), nil
}

func (r *qrTokensRepo) ConsumeToken(ctx context.Context, code string, usedAt time.Time) error {
	n, err := r.q.ConsumeQRToken(ctx, gen.ConsumeQRTokenParams{
		UsedAt: mapOptionalTime(&usedAt),
		Code:   code,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *qrTokensRepo) DeleteStaleTokens(ctx context.Context, before time.Time) (int64, error) {
	return r.q.DeleteStaleQRTokens(ctx, before.UTC())
}
