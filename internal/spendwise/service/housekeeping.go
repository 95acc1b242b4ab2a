package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/spendwise-app/spendwise/internal/spendwise/store"
)

// otpClearGrace keeps expired codes around long enough that a validation
// racing the sweep still reports "expired" instead of "none pending".
const otpClearGrace = 24 * time.Hour

// HousekeepingService periodically clears long-expired OTP codes so stale
// fingerprints do not accumulate on user rows.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut the
// worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the background worker, blocking until any in-progress
// sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-otpClearGrace).UnixMilli()
	n, err := s.Store.Users().ClearExpiredOTPs(ctx, cutoff)
	if err != nil {
		s.Logger.Error("housekeeping sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("cleared expired otp codes", "accounts", n)
	}
}
