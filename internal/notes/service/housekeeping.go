package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/jwtx"
)

// HousekeepingService periodically purges dead sessions and, when a
// KeyManager is set, rotates the signing keys.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// KeyManager is optional. Keys rotate every KeyRotationInterval and a
	// retired key keeps verifying for KeyGracePeriod.
	KeyManager          *jwtx.KeyManager
	KeyRotationInterval time.Duration
	KeyGracePeriod      time.Duration

	// Now replaces time.Now, for tests.
	Now func() time.Time

	lastRotation time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
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

// Start runs the worker in the background until Stop is called.
func (s *HousekeepingService) Start() {
	s.lastRotation = s.now()
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
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
	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one cleanup pass. Each step is independent; a failure is
// logged and does not stop the others.
func (s *HousekeepingService) RunOnce(ctx context.Context) {
	now := s.now()

	n, err := s.Store.Sessions().DeleteInactiveSessions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete inactive sessions", "error", err)
	} else {
		s.Logger.Debug("deleted inactive sessions", "count", n)
	}

	if s.KeyManager == nil {
		return
	}

	if s.KeyRotationInterval > 0 && now.Sub(s.lastRotation) >= s.KeyRotationInterval {
		retired, err := s.KeyManager.Rotate(now)
		if err != nil {
			s.Logger.Error("failed to rotate signing key", "error", err)
		} else {
			s.lastRotation = now
			s.Logger.Info("signing key rotated", "retired_kid", retired, "active_keys", s.KeyManager.NumSigners())
		}
	}

	if pruned := s.KeyManager.PruneRetired(now, s.KeyGracePeriod); pruned > 0 {
		s.Logger.Info("retired signing keys pruned", "count", pruned)
	}
}

func (s *HousekeepingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
