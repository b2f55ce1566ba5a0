package domain

import "time"

// EventKind classifies journal entries.
type EventKind string

const (
	EventProbe       EventKind = "probe"
	EventRemediation EventKind = "remediation"
	EventRestart     EventKind = "restart"
)

// EventRecord is one write-only journal entry. The journal is an audit trail;
// it is never read back to restore loop state.
type EventRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Kind       EventKind `json:"kind"`
	CycleID    string    `json:"cycle_id,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
	InstanceID string    `json:"instance_id,omitempty"`
	Healthy    bool      `json:"healthy"`
	Outcome    string    `json:"outcome,omitempty"`
	Details    string    `json:"details,omitempty"`
}
