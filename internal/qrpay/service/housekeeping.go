package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/store"
)

const DefaultStaleTokenRetention = 30 * 24 * time.Hour

// HousekeepingService periodically deletes tokens that expired without ever
// being used. Consumed tokens are audit records and are never touched.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to one hour. A non-positive retention disables cleanup.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger.With("component", "housekeeping"),
		Interval:  interval,
		Retention: retention,
		Now:       time.Now,
	}
}

func (s *HousekeepingService) Enabled() bool { return s.Retention > 0 }

// Start launches the background worker. It is a no-op when disabled.
func (s *HousekeepingService) Start() {
	if !s.Enabled() {
		s.Logger.Info("housekeeping disabled", "retention", s.Retention)
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.stopCh = nil
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup deletes unused tokens whose expiry is older than the retention
// window and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	if !s.Enabled() {
		return 0
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().UTC().Add(-s.Retention)

	n, err := s.Store.QRTokens().DeleteStaleTokens(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to delete stale qr tokens", "error", err)
		return 0
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_tokens", n, "cutoff", cutoff)
	return n
}
