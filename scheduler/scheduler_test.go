package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/FarmaSync/edups/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// mockPinger fails while err is set
type mockPinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (m *mockPinger) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return m.err
}

func (m *mockPinger) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockPinger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestNewScheduler(t *testing.T) {
	s := NewScheduler(&mockPinger{}, time.Minute)
	if s.scheduler == nil {
		t.Fatal("expected gocron scheduler to be initialized")
	}
	if s.Interval() != time.Minute {
		t.Errorf("expected interval 1m, got %v", s.Interval())
	}
	if s.LastProbe().Checked() {
		t.Error("expected no probe before Start")
	}
}

func TestProbeRecordsOutcome(t *testing.T) {
	pinger := &mockPinger{}
	s := NewScheduler(pinger, time.Minute)

	status := s.Probe(context.Background())
	if !status.Up || status.Err != nil {
		t.Fatalf("expected healthy probe, got %+v", status)
	}
	if got := testutil.ToFloat64(metrics.StoreUp); got != 1 {
		t.Errorf("expected store_up 1, got %v", got)
	}

	pinger.setErr(errors.New("connection refused"))
	status = s.Probe(context.Background())
	if status.Up || status.Err == nil {
		t.Fatalf("expected failed probe, got %+v", status)
	}
	if got := testutil.ToFloat64(metrics.StoreUp); got != 0 {
		t.Errorf("expected store_up 0, got %v", got)
	}
	if last := s.LastProbe(); last.Up || last.CheckedAt != status.CheckedAt {
		t.Errorf("LastProbe does not match last result: %+v", last)
	}

	pinger.setErr(nil)
	if status := s.Probe(context.Background()); !status.Up {
		t.Error("expected recovery")
	}
}

func TestProbeHonoursCancelledContext(t *testing.T) {
	s := NewScheduler(&mockPinger{}, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if status := s.Probe(ctx); status.Up {
		t.Error("expected probe with cancelled context to fail")
	}
}

func TestStartProbesImmediately(t *testing.T) {
	pinger := &mockPinger{}
	s := NewScheduler(pinger, time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if pinger.callCount() != 1 {
		t.Errorf("expected one synchronous probe, got %d", pinger.callCount())
	}
	if !s.LastProbe().Checked() {
		t.Error("expected a recorded probe after Start")
	}
}

func TestStartWithUnreachableStore(t *testing.T) {
	pinger := &mockPinger{err: errors.New("no such host")}
	s := NewScheduler(pinger, time.Hour)

	if err := s.Start(); err != nil {
		t.Fatalf("unreachable store must not fail Start: %v", err)
	}
	defer s.Stop()

	if s.LastProbe().Up {
		t.Error("expected store to be reported down")
	}
}
