package service

import (
	"context"
	"log/slog"
	"time"
)

// DefaultHousekeepingInterval is used when no interval is configured.
const DefaultHousekeepingInterval = time.Hour

// ExpiredCleaner removes expired pending invitations.
type ExpiredCleaner interface {
	CleanupExpired(ctx context.Context, now time.Time) (int64, error)
}

// HousekeepingService periodically deletes expired invitations so that
// pending rows do not grow without bound.
type HousekeepingService struct {
	Cleaner  ExpiredCleaner
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(cleaner ExpiredCleaner, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}

	return &HousekeepingService{
		Cleaner:  cleaner,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. It is non-blocking; call Stop to
// shut the worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", slog.Duration("interval", s.Interval))
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}

	deleted, err := s.Cleaner.CleanupExpired(ctx, now)
	if err != nil {
		s.Logger.Error("housekeeping cleanup failed", slog.Any("error", err))
		return
	}
	s.Logger.Info("housekeeping cleanup completed", slog.Int64("deleted", deleted))
}
