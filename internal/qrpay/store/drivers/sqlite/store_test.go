package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/drivers/sqlite"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store/storetest"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newFileStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "qrpay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStoreConformanceMemory(t *testing.T) {
	storetest.Run(t, newMemoryStore)
}

func TestStoreConformanceFile(t *testing.T) {
	storetest.Run(t, newFileStore)
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.ApplyMigrations())
}

func TestNestedTxRejected(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.Error(t, err)
		require.Error(t, tx.WithTx(ctx, func(store.Tx) error { return nil }))
		return nil
	})
	require.NoError(t, err)
}

func TestCheckConstraintRejectsNonPositiveAmount(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	err := s.QRTokens().CreateToken(ctx, domain.QRToken{
		Code:          "c0ffee",
		EncryptedData: "x",
		UserID:        "u",
		LoanID:        "l",
		Amount:        0,
		ExpiresAt:     time.Now().Add(time.Minute),
		CreatedAt:     time.Now(),
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)
}
