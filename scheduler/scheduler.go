// Package scheduler runs the background store liveness probe. The dashboard itself
// never needs background work; the probe only feeds /health and the store_up gauge.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FarmaSync/edups/interfaces"
	"github.com/FarmaSync/edups/logging"
	"github.com/FarmaSync/edups/metrics"
	"github.com/go-co-op/gocron"
)

// probeTimeout bounds a single ping.
const probeTimeout = 5 * time.Second

// Compile-time checks
var (
	_ interfaces.Scheduler     = (*Scheduler)(nil)
	_ interfaces.ProbeReporter = (*Scheduler)(nil)
)

// Scheduler pings the store on a fixed interval and remembers the last outcome.
type Scheduler struct {
	store     interfaces.Pinger
	interval  time.Duration
	scheduler *gocron.Scheduler

	mu   sync.RWMutex
	last interfaces.ProbeStatus
}

// NewScheduler creates a scheduler probing store every interval.
func NewScheduler(store interfaces.Pinger, interval time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start probes once synchronously, then schedules the recurring probe.
// A failing first probe is logged, not returned: the store may come back.
func (s *Scheduler) Start() error {
	s.Probe(context.Background())

	_, err := s.scheduler.Every(s.interval).SingletonMode().WaitForSchedule().Do(func() {
		s.Probe(context.Background())
	})
	if err != nil {
		logging.Error("Failed to schedule store probe", "error", err)
		return fmt.Errorf("failed to schedule store probe: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Store probe scheduled", "interval", s.interval.String())
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Probe pings the store and records the result.
func (s *Scheduler) Probe(ctx context.Context) interfaces.ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Ping(ctx)
	status := interfaces.ProbeStatus{
		CheckedAt: start,
		Up:        err == nil,
		Latency:   time.Since(start),
		Err:       err,
	}

	s.mu.Lock()
	previous := s.last
	s.last = status
	s.mu.Unlock()

	metrics.SetStoreUp(status.Up)

	switch {
	case !status.Up && (previous.Up || !previous.Checked()):
		logging.Warn("Store is unreachable", "error", err)
	case status.Up && previous.Checked() && !previous.Up:
		logging.Info("Store is reachable again", "latency", status.Latency.String())
	default:
		logging.Debug("Store probe", "up", status.Up, "latency", status.Latency.String())
	}

	return status
}

// LastProbe returns the most recent probe result.
func (s *Scheduler) LastProbe() interfaces.ProbeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Interval is the configured probe period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}
