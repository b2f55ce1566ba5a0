package domain

import "time"

// RestartOutcome classifies what happened to one instance during remediation.
type RestartOutcome string

const (
	OutcomeSucceeded RestartOutcome = "succeeded"
	OutcomeFailed    RestartOutcome = "failed"
	OutcomeSkipped   RestartOutcome = "skipped"
)

// RemediationResult is the per-instance result of a restart.
type RemediationResult struct {
	InstanceID string
	State      LifecycleState // state observed at discovery
	Outcome    RestartOutcome
	Err        error
	Duration   time.Duration
}

// Succeeded reports whether the instance went through a full stop/start cycle.
func (r RemediationResult) Succeeded() bool {
	return r.Outcome == OutcomeSucceeded
}

// RemediationSummary tallies one remediation cycle. Skipped instances are
// not attempted.
type RemediationSummary struct {
	CycleID   string
	Attempted int
	Succeeded int
	Skipped   int
	Results   []RemediationResult
}

// Failed returns the number of attempted restarts that did not succeed.
func (s RemediationSummary) Failed() int {
	return s.Attempted - s.Succeeded
}
