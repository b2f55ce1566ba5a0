// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The monitor loop and the remediation services depend only on these
// contracts. Adapters in the infrastructure layer implement them against
// HTTP, the EC2 API, YAML files and SQLite.
package ports

import (
	"context"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// ConfigProvider loads configuration from persistent storage.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// HealthProbe performs one health check. Transport failures are reported as
// an unhealthy verdict, never as an error.
type HealthProbe interface {
	Check(ctx context.Context) domain.HealthVerdict
}

// ComputeAPI is the subset of the compute provider's control plane the
// remediation path needs.
type ComputeAPI interface {
	DescribeInstances(ctx context.Context, filter domain.InstanceFilter) ([]domain.InstanceDescriptor, error)
	StopInstance(ctx context.Context, instanceID string) error
	StartInstance(ctx context.Context, instanceID string) error
	InstanceState(ctx context.Context, instanceID string) (domain.LifecycleState, error)
}

// InstanceDirectory discovers remediation targets. Provider errors yield an
// empty result.
type InstanceDirectory interface {
	ListTargets(ctx context.Context, tagKey, tagValue string) []domain.InstanceDescriptor
}

// InstanceRemediator drives a single instance through stop and start.
type InstanceRemediator interface {
	Restart(ctx context.Context, instance domain.InstanceDescriptor) domain.RemediationResult
}

// Remediator runs one full remediation cycle over the discovered targets.
type Remediator interface {
	RemediateAll(ctx context.Context, targets []domain.InstanceDescriptor) domain.RemediationSummary
}

// EventRepository persists journal entries.
type EventRepository interface {
	Save(domain.EventRecord) error
	Records(limit int, kind domain.EventKind) ([]domain.EventRecord, error)
	Path() string
	Close() error
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
