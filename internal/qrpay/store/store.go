package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Repositories hang off it so a transaction can hand out
// the same set scoped to itself.
type Store interface {
	QRTokens() QRTokens
	Payments() Payments
	Loans() Loans
	AuditLogs() AuditLogs

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Inside fn use the repositories of tx only.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type QRTokens interface {
	// CreateToken inserts a new unused token. A duplicate code yields ErrAlreadyExists.
	CreateToken(ctx context.Context, t domain.QRToken) error

	// GetUnusedByCode returns the token only while used = false.
	GetUnusedByCode(ctx context.Context, code string) (domain.QRToken, error)

	// GetByCode returns the token regardless of state.
	GetByCode(ctx context.Context, code string) (domain.QRToken, error)

	// ConsumeToken flips used=false -> true and sets used_at in a single
	// conditional update. ErrNotFound means no unused row matched, i.e. the
	// code is unknown or another caller consumed it first.
	ConsumeToken(ctx context.Context, code string, usedAt time.Time) error

	// DeleteStaleTokens removes never-used tokens that expired before the
	// cutoff. Used tokens are never deleted.
	DeleteStaleTokens(ctx context.Context, before time.Time) (int64, error)
}

type Payments interface {
	// CreatePayment inserts a ledger row. A second payment with the same
	// reference yields ErrAlreadyExists.
	CreatePayment(ctx context.Context, p domain.Payment) error

	GetPaymentByReference(ctx context.Context, reference string) (domain.Payment, error)

	// ListPaymentsByLoan returns payments newest first.
	ListPaymentsByLoan(ctx context.Context, loanID string) ([]domain.Payment, error)
}

type Loans interface {
	CreateLoan(ctx context.Context, l domain.Loan) error
	GetLoanByID(ctx context.Context, id string) (domain.Loan, error)
}

type AuditLogs interface {
	CreateAuditLog(ctx context.Context, a domain.AuditLog) error

	// ListAuditLogsByEntity returns entries oldest first.
	ListAuditLogsByEntity(ctx context.Context, entityType, entityID string) ([]domain.AuditLog, error)
}
