// Package interfaces defines the contracts shared between the formulary packages
// so that renderers, health checks and schedulers can be tested without a database.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/FarmaSync/edups/store"
)

// DataSource runs catalog queries. *store.Store is the production implementation.
type DataSource interface {
	Fetch(ctx context.Context, id store.QueryID, args ...any) (*store.ResultSet, error)
}

// Pinger checks that the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeStatus is the outcome of the most recent store liveness probe.
type ProbeStatus struct {
	CheckedAt time.Time
	Up        bool
	Latency   time.Duration
	Err       error
}

// Checked reports whether a probe has run at least once.
func (p ProbeStatus) Checked() bool {
	return !p.CheckedAt.IsZero()
}

// ProbeReporter exposes the last probe result.
type ProbeReporter interface {
	LastProbe() ProbeStatus
}

// Scheduler defines the lifecycle of background jobs.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports system health for the /health endpoint.
type HealthChecker interface {
	HealthCheck() (status string, data map[string]any, httpStatus int)
}

// DashboardHandler serves the web dashboard.
type DashboardHandler interface {
	Home(w http.ResponseWriter, r *http.Request)
	Page(w http.ResponseWriter, r *http.Request)
	PageJSON(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
