// Package storetest holds a conformance suite every store.Store driver must
// pass. Drivers call Run from their own tests with a constructor that
// returns a freshly migrated, empty store.
package storetest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/pkg/idx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewStoreFunc returns an empty store with migrations applied.
type NewStoreFunc func(t *testing.T) store.Store

func Run(t *testing.T, newStore NewStoreFunc) {
	t.Run("QRTokens", func(t *testing.T) { testQRTokens(t, newStore(t)) })
	t.Run("ConsumeTokenOnce", func(t *testing.T) { testConsumeOnce(t, newStore(t)) })
	t.Run("ConcurrentConsume", func(t *testing.T) { testConcurrentConsume(t, newStore(t)) })
	t.Run("DeleteStaleTokens", func(t *testing.T) { testDeleteStale(t, newStore(t)) })
	t.Run("Payments", func(t *testing.T) { testPayments(t, newStore(t)) })
	t.Run("Loans", func(t *testing.T) { testLoans(t, newStore(t)) })
	t.Run("AuditLogs", func(t *testing.T) { testAuditLogs(t, newStore(t)) })
	t.Run("WithTxRollback", func(t *testing.T) { testWithTxRollback(t, newStore(t)) })
	t.Run("Ping", func(t *testing.T) { require.NoError(t, newStore(t).Ping(context.Background())) })
}

// now is truncated so drivers with microsecond precision round-trip exactly.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func newToken(expiresAt time.Time) domain.QRToken {
	return domain.QRToken{
		Code:          uuid.NewString(),
		EncryptedData: "ciphertext",
		UserID:        "user-1",
		LoanID:        "loan-1",
		Amount:        125.5,
		ExpiresAt:     expiresAt,
		CreatedAt:     now(),
	}
}

func testQRTokens(t *testing.T, s store.Store) {
	ctx := context.Background()
	tok := newToken(now().Add(15 * time.Minute))

	require.NoError(t, s.QRTokens().CreateToken(ctx, tok))
	require.ErrorIs(t, s.QRTokens().CreateToken(ctx, tok), store.ErrAlreadyExists)

	got, err := s.QRTokens().GetUnusedByCode(ctx, tok.Code)
	require.NoError(t, err)
	require.Equal(t, tok.Code, got.Code)
	require.Equal(t, tok.EncryptedData, got.EncryptedData)
	require.Equal(t, tok.UserID, got.UserID)
	require.Equal(t, tok.LoanID, got.LoanID)
	require.InDelta(t, tok.Amount, got.Amount, 1e-9)
	require.True(t, tok.ExpiresAt.Equal(got.ExpiresAt), "expires_at: want %s got %s", tok.ExpiresAt, got.ExpiresAt)
	require.False(t, got.Used)
	require.Nil(t, got.UsedAt)

	_, err = s.QRTokens().GetUnusedByCode(ctx, uuid.NewString())
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.QRTokens().GetByCode(ctx, uuid.NewString())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testConsumeOnce(t *testing.T, s store.Store) {
	ctx := context.Background()
	tok := newToken(now().Add(time.Minute))
	require.NoError(t, s.QRTokens().CreateToken(ctx, tok))

	usedAt := now()
	require.NoError(t, s.QRTokens().ConsumeToken(ctx, tok.Code, usedAt))
	require.ErrorIs(t, s.QRTokens().ConsumeToken(ctx, tok.Code, usedAt), store.ErrNotFound)

	_, err := s.QRTokens().GetUnusedByCode(ctx, tok.Code)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.QRTokens().GetByCode(ctx, tok.Code)
	require.NoError(t, err)
	require.True(t, got.Used)
	require.NotNil(t, got.UsedAt)
	require.True(t, usedAt.Equal(*got.UsedAt))

	require.ErrorIs(t, s.QRTokens().ConsumeToken(ctx, uuid.NewString(), usedAt), store.ErrNotFound)
}

func testConcurrentConsume(t *testing.T, s store.Store) {
	ctx := context.Background()
	tok := newToken(now().Add(time.Minute))
	require.NoError(t, s.QRTokens().CreateToken(ctx, tok))

	const workers = 8
	var (
		wg      sync.WaitGroup
		success atomic.Int32
		lost    atomic.Int32
	)
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := s.WithTx(ctx, func(tx store.Tx) error {
				return tx.QRTokens().ConsumeToken(ctx, tok.Code, now())
			})
			switch {
			case err == nil:
				success.Add(1)
			case errors.Is(err, store.ErrNotFound):
				lost.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.EqualValues(t, 1, success.Load())
	require.EqualValues(t, workers-1, lost.Load())
}

func testDeleteStale(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := now()

	stale := newToken(base.Add(-48 * time.Hour))
	fresh := newToken(base.Add(time.Hour))
	usedStale := newToken(base.Add(-48 * time.Hour))
	for _, tok := range []domain.QRToken{stale, fresh, usedStale} {
		require.NoError(t, s.QRTokens().CreateToken(ctx, tok))
	}
	require.NoError(t, s.QRTokens().ConsumeToken(ctx, usedStale.Code, base.Add(-47*time.Hour)))

	n, err := s.QRTokens().DeleteStaleTokens(ctx, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = s.QRTokens().GetByCode(ctx, stale.Code)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.QRTokens().GetByCode(ctx, fresh.Code)
	require.NoError(t, err)
	_, err = s.QRTokens().GetByCode(ctx, usedStale.Code)
	require.NoError(t, err)
}

func testPayments(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := now()

	first := domain.Payment{
		ID:        idx.New(idx.PrefixPayment).String(),
		LoanID:    "loan-1",
		UserID:    "user-1",
		Amount:    100,
		Method:    domain.PaymentMethodQRCode,
		Reference: uuid.NewString(),
		CreatedAt: base.Add(-time.Minute),
	}
	second := first
	second.ID = idx.New(idx.PrefixPayment).String()
	second.Amount = 50
	second.Reference = uuid.NewString()
	second.CreatedAt = base

	require.NoError(t, s.Payments().CreatePayment(ctx, first))
	require.NoError(t, s.Payments().CreatePayment(ctx, second))

	dup := first
	dup.ID = idx.New(idx.PrefixPayment).String()
	require.ErrorIs(t, s.Payments().CreatePayment(ctx, dup), store.ErrAlreadyExists)

	got, err := s.Payments().GetPaymentByReference(ctx, first.Reference)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)
	require.Equal(t, domain.PaymentMethodQRCode, got.Method)

	_, err = s.Payments().GetPaymentByReference(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.Payments().ListPaymentsByLoan(ctx, "loan-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)

	empty, err := s.Payments().ListPaymentsByLoan(ctx, "loan-2")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func testLoans(t *testing.T, s store.Store) {
	ctx := context.Background()
	loan := domain.Loan{
		ID:        "loan-1",
		UserID:    "user-1",
		SFDID:     "sfd-1",
		Amount:    1000,
		CreatedAt: now(),
	}
	require.NoError(t, s.Loans().CreateLoan(ctx, loan))
	require.ErrorIs(t, s.Loans().CreateLoan(ctx, loan), store.ErrAlreadyExists)

	got, err := s.Loans().GetLoanByID(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, "sfd-1", got.SFDID)
	require.Equal(t, "active", got.Status)
	require.InDelta(t, 1000.0, got.Amount, 1e-9)

	_, err = s.Loans().GetLoanByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testAuditLogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := now()

	code := uuid.NewString()
	entries := []domain.AuditLog{
		{Action: domain.AuditQRGenerated, Details: `{"amount":10}`, CreatedAt: base.Add(-time.Second)},
		{Action: domain.AuditQRVerified, CreatedAt: base},
	}
	for _, e := range entries {
		e.ID = idx.New(idx.PrefixAudit).String()
		e.EntityType = domain.EntityQRToken
		e.EntityID = code
		e.UserID = "user-1"
		require.NoError(t, s.AuditLogs().CreateAuditLog(ctx, e))
	}

	got, err := s.AuditLogs().ListAuditLogsByEntity(ctx, domain.EntityQRToken, code)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, domain.AuditQRGenerated, got[0].Action)
	require.JSONEq(t, `{"amount":10}`, got[0].Details)
	require.Equal(t, domain.AuditQRVerified, got[1].Action)
	require.JSONEq(t, `{}`, got[1].Details)
}

func testWithTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	tok := newToken(now().Add(time.Minute))
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.QRTokens().CreateToken(ctx, tok); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.QRTokens().GetByCode(ctx, tok.Code)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.QRTokens().CreateToken(ctx, tok)
	}))
	_, err = s.QRTokens().GetByCode(ctx, tok.Code)
	require.NoError(t, err)
}
