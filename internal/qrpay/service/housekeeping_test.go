package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/domain"
	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanupDeletesOnlyStaleUnusedTokens(t *testing.T) {
	ctx := context.Background()
	st := newMemoryStore(t)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mk := func(expiresAt time.Time) domain.QRToken {
		tok := domain.QRToken{
			Code:          uuid.NewString(),
			EncryptedData: "x",
			UserID:        "U1",
			LoanID:        "L1",
			Amount:        1,
			ExpiresAt:     expiresAt,
			CreatedAt:     expiresAt.Add(-15 * time.Minute),
		}
		require.NoError(t, st.QRTokens().CreateToken(ctx, tok))
		return tok
	}

	stale := mk(now.Add(-48 * time.Hour))
	recent := mk(now.Add(-time.Hour))
	consumed := mk(now.Add(-48 * time.Hour))
	require.NoError(t, st.QRTokens().ConsumeToken(ctx, consumed.Code, now.Add(-49*time.Hour)))

	hk := NewHousekeepingService(st, slogx.Discard(), time.Minute, 24*time.Hour)
	hk.Now = func() time.Time { return now }

	require.EqualValues(t, 1, hk.Cleanup(ctx))

	_, err := st.QRTokens().GetByCode(ctx, stale.Code)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.QRTokens().GetByCode(ctx, recent.Code)
	require.NoError(t, err)
	_, err = st.QRTokens().GetByCode(ctx, consumed.Code)
	require.NoError(t, err)

	require.Zero(t, hk.Cleanup(ctx))
}

func TestHousekeepingDisabled(t *testing.T) {
	hk := NewHousekeepingService(newMemoryStore(t), slogx.Discard(), 0, 0)
	require.False(t, hk.Enabled())
	require.Equal(t, time.Hour, hk.Interval)
	require.Zero(t, hk.Cleanup(context.Background()))

	hk.Start()
	hk.Stop()
}

func TestHousekeepingStartStop(t *testing.T) {
	hk := NewHousekeepingService(newMemoryStore(t), slogx.Discard(), 10*time.Millisecond, time.Hour)
	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop()
}
