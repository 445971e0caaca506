package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

// NewStore opens the database at dsn. Both file paths and full "file:" URIs
// are accepted; a bare path gets WAL, a busy timeout and immediate
// transactions so concurrent consumers serialise instead of failing with
// SQLITE_BUSY.
func NewStore(dsn string) (*Store, error) {
	dsn = normaliseDSN(dsn)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every connection to :memory: is its own database.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func normaliseDSN(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return "file:" + dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) QRTokens() store.QRTokens   { return &qrTokensRepo{q: s.q} }
func (s *Store) Payments() store.Payments   { return &paymentsRepo{q: s.q} }
func (s *Store) Loans() store.Loans         { return &loansRepo{q: s.q} }
func (s *Store) AuditLogs() store.AuditLogs { return &auditLogsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns primary key and unique violations into
// store.ErrAlreadyExists.
func mapConstraint(err error) error {
	var serr *msqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapOptionalTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapQRToken(row gen.QrToken) domain.QRToken {
	return domain.QRToken{
		Code:          row.Code,
		EncryptedData: row.EncryptedData,
		UserID:        row.UserID,
		LoanID:        row.LoanID,
		Amount:        row.Amount,
		ExpiresAt:     row.ExpiresAt,
		Used:          row.Used,
		UsedAt:        mapNullTimePtr(row.UsedAt),
		CreatedAt:     row.CreatedAt,
	}
}

func mapPayment(row gen.Payment) domain.Payment {
	return domain.Payment{
		ID:        row.ID,
		LoanID:    row.LoanID,
		UserID:    row.UserID,
		Amount:    row.Amount,
		Method:    row.Method,
		Reference: row.Reference,
		CreatedAt: row.CreatedAt,
	}
}

func mapLoan(row gen.Loan) domain.Loan {
	return domain.Loan{
		ID:        row.ID,
		UserID:    row.UserID,
		SFDID:     row.SfdID,
		Amount:    row.Amount,
		Status:    row.Status,
		CreatedAt: row.CreatedAt,
	}
}

func mapAuditLog(row gen.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		ID:         row.ID,
		Action:     row.Action,
		EntityType: row.EntityType,
		EntityID:   row.EntityID,
		UserID:     row.UserID,
		Details:    row.Details,
		CreatedAt:  row.CreatedAt,
	}
}
