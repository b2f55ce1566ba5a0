package domain

import "time"

// HealthVerdict is the outcome of one probe. It lives for a single tick.
type HealthVerdict struct {
	Healthy    bool
	StatusCode int    // 0 when the request never produced a response
	Message    string // diagnostic: observed status, missing marker or transport error
	CheckedAt  time.Time
	Latency    time.Duration
}

// HealthStatus indicates doctor check outcomes.
type HealthStatus string

const (
	HealthOK    HealthStatus = "ok"
	HealthWarn  HealthStatus = "warn"
	HealthError HealthStatus = "error"
)

// HealthCheck captures a single diagnostic result.
type HealthCheck struct {
	Name    string
	Status  HealthStatus
	Details string
}

// HealthReport aggregates checks.
type HealthReport struct {
	Checks []HealthCheck
}

// Failed reports whether any check ended in HealthError.
func (r HealthReport) Failed() bool {
	for _, c := range r.Checks {
		if c.Status == HealthError {
			return true
		}
	}
	return false
}
