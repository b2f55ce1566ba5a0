// Package remediation discovers tagged instances and restarts them one at a
// time.
package remediation

import (
	"context"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Directory implements ports.InstanceDirectory on top of a ComputeAPI.
type Directory struct {
	Compute ports.ComputeAPI
	Logger  ports.Logger
}

// ListTargets returns instances tagged tagKey=tagValue in a discoverable
// state. A provider error is logged and yields no targets.
func (d *Directory) ListTargets(ctx context.Context, tagKey, tagValue string) []domain.InstanceDescriptor {
	filter := domain.TargetFilter(tagKey, tagValue)

	found, err := d.Compute.DescribeInstances(ctx, filter)
	if err != nil {
		d.Logger.Error("failed to discover instances", err, map[string]interface{}{
			"tag": tagKey + "=" + tagValue,
		})
		return nil
	}

	// The provider filters server side; re-check so a lax adapter can never
	// leak terminated or untagged instances into remediation.
	targets := make([]domain.InstanceDescriptor, 0, len(found))
	for _, inst := range found {
		if !filter.Matches(inst) {
			d.Logger.Debug("dropping instance outside filter", map[string]interface{}{
				"instance": inst.ID,
				"state":    string(inst.State),
			})
			continue
		}
		targets = append(targets, inst)
	}
	return targets
}

var _ ports.InstanceDirectory = (*Directory)(nil)
