package remediation

import (
	"context"
	"fmt"
	"time"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/pkg/wait"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// States from which the awaited state can no longer be reached.
var (
	stoppedFailureStates = []domain.LifecycleState{domain.StatePending, domain.StateShuttingDown, domain.StateTerminated}
	runningFailureStates = []domain.LifecycleState{domain.StateStopping, domain.StateShuttingDown, domain.StateTerminated}
)

// InstanceRestarter implements ports.InstanceRemediator with a strictly
// sequential stop, await stopped, start, await running cycle. A failed step
// aborts the cycle without compensation.
type InstanceRestarter struct {
	Compute ports.ComputeAPI
	Policy  wait.Policy
	Logger  ports.Logger
}

// Restart cycles instance. Instances that are not running or stopped are
// skipped without any provider call.
func (r *InstanceRestarter) Restart(ctx context.Context, instance domain.InstanceDescriptor) domain.RemediationResult {
	result := domain.RemediationResult{InstanceID: instance.ID, State: instance.State}
	fields := map[string]interface{}{"instance": instance.ID}

	if !instance.State.Restartable() {
		r.Logger.Warn("skipping instance", map[string]interface{}{
			"instance": instance.ID,
			"state":    string(instance.State),
		})
		result.Outcome = domain.OutcomeSkipped
		return result
	}

	start := time.Now()
	r.Logger.Info("attempting to restart instance", fields)

	if err := r.cycle(ctx, instance.ID); err != nil {
		result.Outcome = domain.OutcomeFailed
		result.Err = err
		result.Duration = time.Since(start)
		r.Logger.Error("failed to restart instance", err, fields)
		return result
	}

	result.Outcome = domain.OutcomeSucceeded
	result.Duration = time.Since(start)
	r.Logger.Info("instance restarted successfully", map[string]interface{}{
		"instance": instance.ID,
		"duration": result.Duration.Round(time.Second).String(),
	})
	return result
}

func (r *InstanceRestarter) cycle(ctx context.Context, id string) error {
	fields := map[string]interface{}{"instance": id}

	if err := r.Compute.StopInstance(ctx, id); err != nil {
		return fmt.Errorf("issue stop: %w", err)
	}
	r.Logger.Info("stop command sent", fields)

	r.Logger.Info("waiting for instance to stop", fields)
	if err := r.await(ctx, id, domain.StateStopped, stoppedFailureStates); err != nil {
		return fmt.Errorf("await stopped: %w", err)
	}

	if err := r.Compute.StartInstance(ctx, id); err != nil {
		return fmt.Errorf("issue start: %w", err)
	}
	r.Logger.Info("start command sent", fields)

	r.Logger.Info("waiting for instance to start", fields)
	if err := r.await(ctx, id, domain.StateRunning, runningFailureStates); err != nil {
		return fmt.Errorf("await running: %w", err)
	}
	return nil
}

func (r *InstanceRestarter) await(ctx context.Context, id string, target domain.LifecycleState, failures []domain.LifecycleState) error {
	return wait.Until(ctx, r.Policy, func(ctx context.Context) (bool, error) {
		state, err := r.Compute.InstanceState(ctx, id)
		if err != nil {
			return false, err
		}
		if state == target {
			return true, nil
		}
		for _, f := range failures {
			if state == f {
				return false, &UnreachableStateError{Target: target, Observed: state}
			}
		}
		r.Logger.Debug("instance not yet in target state", map[string]interface{}{
			"instance": id,
			"state":    string(state),
			"target":   string(target),
		})
		return false, nil
	})
}

// UnreachableStateError reports an instance that moved into a state from
// which the awaited state cannot be reached.
type UnreachableStateError struct {
	Target   domain.LifecycleState
	Observed domain.LifecycleState
}

func (e *UnreachableStateError) Error() string {
	return fmt.Sprintf("instance entered %s while waiting for %s", e.Observed, e.Target)
}

var _ ports.InstanceRemediator = (*InstanceRestarter)(nil)
