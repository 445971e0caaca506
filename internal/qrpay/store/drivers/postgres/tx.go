package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/jmoiron/sqlx"
)

type txStore struct {
	tx *sqlx.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) QRTokens() store.QRTokens   { return &qrTokensRepo{db: t.tx} }
func (t *txStore) Payments() store.Payments   { return &paymentsRepo{db: t.tx} }
func (t *txStore) Loans() store.Loans         { return &loansRepo{db: t.tx} }
func (t *txStore) AuditLogs() store.AuditLogs { return &auditLogsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }
