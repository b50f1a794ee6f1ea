package service

import (
	"log/slog"
	"time"
)

// Evictor drops state that has been idle for longer than a duration.
type Evictor interface {
	EvictIdle(idle time.Duration) int
}

// HousekeepingService periodically evicts idle shield profiles so the
// profile map cannot grow without bound.
type HousekeepingService struct {
	Target   Evictor
	Logger   *slog.Logger
	Interval time.Duration
	IdleTTL  time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the worker. If interval is 0 or negative,
// defaults to 1 hour.
func NewHousekeepingService(target Evictor, logger *slog.Logger, interval, idleTTL time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HousekeepingService{
		Target:   target,
		Logger:   logger,
		Interval: interval,
		IdleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("idle_ttl", s.IdleTTL),
	)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopCh:
			return
		}
	}
}

// Sweep performs one eviction pass and returns the number of entries
// removed. A non-positive IdleTTL disables eviction.
func (s *HousekeepingService) Sweep() int {
	if s.IdleTTL <= 0 {
		return 0
	}
	n := s.Target.EvictIdle(s.IdleTTL)
	if n > 0 {
		s.Logger.Info("evicted idle shield profiles", slog.Int("count", n))
	} else {
		s.Logger.Debug("no idle shield profiles")
	}
	return n
}
