package remediation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Orchestrator restarts every target sequentially and tallies the results.
// Restarts are never parallelized: concurrent stop/start calls against one
// account amplify rate limiting and interleave operator logs.
type Orchestrator struct {
	Remediator ports.InstanceRemediator
	Logger     ports.Logger
	// Events is optional; nil disables journaling.
	Events ports.EventRepository
}

// RemediateAll implements ports.Remediator. One instance failing never stops
// the rest of the batch.
func (o *Orchestrator) RemediateAll(ctx context.Context, targets []domain.InstanceDescriptor) domain.RemediationSummary {
	summary := domain.RemediationSummary{CycleID: uuid.NewString()}

	if len(targets) == 0 {
		o.Logger.Warn("no instances found to restart", map[string]interface{}{"cycle": summary.CycleID})
		o.record(domain.EventRecord{
			Kind:    domain.EventRemediation,
			CycleID: summary.CycleID,
			Outcome: "noop",
			Details: "no targets",
		})
		return summary
	}

	o.Logger.Info("found instances to restart", map[string]interface{}{
		"cycle": summary.CycleID,
		"count": len(targets),
	})

	for _, inst := range targets {
		o.Logger.Info("instance current state", map[string]interface{}{
			"instance": inst.ID,
			"state":    string(inst.State),
		})

		res := o.Remediator.Restart(ctx, inst)
		summary.Results = append(summary.Results, res)

		switch res.Outcome {
		case domain.OutcomeSkipped:
			summary.Skipped++
		case domain.OutcomeSucceeded:
			summary.Attempted++
			summary.Succeeded++
		default:
			summary.Attempted++
		}

		rec := domain.EventRecord{
			Kind:       domain.EventRestart,
			CycleID:    summary.CycleID,
			InstanceID: res.InstanceID,
			Outcome:    string(res.Outcome),
			Details:    string(res.State),
		}
		if res.Err != nil {
			rec.Details = res.Err.Error()
		}
		o.record(rec)
	}

	o.Logger.Info("restart operation completed", map[string]interface{}{
		"cycle":     summary.CycleID,
		"attempted": summary.Attempted,
		"succeeded": summary.Succeeded,
		"skipped":   summary.Skipped,
	})
	o.record(domain.EventRecord{
		Kind:    domain.EventRemediation,
		CycleID: summary.CycleID,
		Outcome: outcomeLabel(summary),
		Details: summaryDetails(summary),
	})
	return summary
}

func (o *Orchestrator) record(rec domain.EventRecord) {
	if o.Events == nil {
		return
	}
	if err := o.Events.Save(rec); err != nil {
		o.Logger.Warn("journal write failed", map[string]interface{}{"error": err.Error()})
	}
}

func outcomeLabel(s domain.RemediationSummary) string {
	switch {
	case s.Attempted == 0:
		return "noop"
	case s.Succeeded == s.Attempted:
		return string(domain.OutcomeSucceeded)
	case s.Succeeded == 0:
		return string(domain.OutcomeFailed)
	default:
		return "partial"
	}
}

func summaryDetails(s domain.RemediationSummary) string {
	return fmt.Sprintf("attempted=%d succeeded=%d skipped=%d", s.Attempted, s.Succeeded, s.Skipped)
}

var _ ports.Remediator = (*Orchestrator)(nil)
