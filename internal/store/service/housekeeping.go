package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/fixthevuln/backend/internal/store/store"
)

// webhookRecordTTL is how long processed-event records are kept. The
// provider's retry window is days, so a month of dedupe history is plenty.
const webhookRecordTTL = 30 * 24 * time.Hour

// HousekeepingService periodically prunes old webhook dedupe records to
// prevent unbounded growth of the events table.
type HousekeepingService struct {
	Events   store.WebhookEvents
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 24 hours.
func NewHousekeepingService(events store.WebhookEvents, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &HousekeepingService{
		Events:   events,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
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
	ctx := context.Background()
	cutoff := time.Now().Add(-webhookRecordTTL).Unix()

	deleted, err := s.Events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to prune webhook event records", "error", err)
		return
	}
	s.Logger.Info("housekeeping cleanup completed", "webhook_events_pruned", deleted)
}
