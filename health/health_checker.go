// Package health derives the /health status from the store liveness probe.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/FarmaSync/edups/interfaces"
)

// staleProbeFactor is how many missed probe intervals make a result stale.
const staleProbeFactor = 3

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	probes    interfaces.ProbeReporter
	interval  time.Duration
	driver    string
	startTime time.Time
	now       func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(probes interfaces.ProbeReporter, interval time.Duration, driver string) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		probes:    probes,
		interval:  interval,
		driver:    driver,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// HealthCheck returns the status string, response data and HTTP status for /health.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	probe := h.probes.LastProbe()
	now := h.now()
	probeAge := now.Sub(probe.CheckedAt)

	switch {
	case !probe.Checked() || !probe.Up:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case h.interval > 0 && probeAge > staleProbeFactor*h.interval:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"store_driver":   h.driver,
		"store_up":       probe.Up,
		"uptime_seconds": math.Round(now.Sub(h.startTime).Seconds()),
	}
	if probe.Checked() {
		data["last_probe"] = probe.CheckedAt.Format(time.RFC3339)
		data["probe_age_seconds"] = math.Round(probeAge.Seconds()*10) / 10
		data["probe_latency_ms"] = probe.Latency.Milliseconds()
	}
	if probe.Err != nil {
		data["last_error"] = probe.Err.Error()
	}

	return status, data, httpStatus
}
