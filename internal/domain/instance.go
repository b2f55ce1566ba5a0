package domain

import "time"

// LifecycleState is the provider-reported status of a compute instance.
type LifecycleState string

const (
	StatePending      LifecycleState = "pending"
	StateRunning      LifecycleState = "running"
	StateStopping     LifecycleState = "stopping"
	StateStopped      LifecycleState = "stopped"
	StateShuttingDown LifecycleState = "shutting-down"
	StateTerminated   LifecycleState = "terminated"
)

// DiscoverableStates are the only states InstanceDirectory ever returns.
var DiscoverableStates = []LifecycleState{StateRunning, StateStopped, StateStopping}

// Discoverable reports whether s is one of DiscoverableStates.
func (s LifecycleState) Discoverable() bool {
	for _, d := range DiscoverableStates {
		if s == d {
			return true
		}
	}
	return false
}

// Restartable reports whether a stop/start cycle may begin from s.
// Instances already transitioning are left alone.
func (s LifecycleState) Restartable() bool {
	return s == StateRunning || s == StateStopped
}

// InstanceDescriptor is a fresh view of one instance. It is never cached
// across ticks.
type InstanceDescriptor struct {
	ID         string
	State      LifecycleState
	Tags       map[string]string
	LaunchTime time.Time
	PrivateIP  string
	PublicIP   string
}

// InstanceFilter selects remediation targets.
type InstanceFilter struct {
	TagKey   string
	TagValue string
	States   []LifecycleState
}

// TargetFilter builds the filter used for remediation discovery.
func TargetFilter(tagKey, tagValue string) InstanceFilter {
	return InstanceFilter{
		TagKey:   tagKey,
		TagValue: tagValue,
		States:   append([]LifecycleState(nil), DiscoverableStates...),
	}
}

// Matches reports whether d carries the exact tag and an accepted state.
func (f InstanceFilter) Matches(d InstanceDescriptor) bool {
	if v, ok := d.Tags[f.TagKey]; !ok || v != f.TagValue {
		return false
	}
	for _, s := range f.States {
		if d.State == s {
			return true
		}
	}
	return false
}
