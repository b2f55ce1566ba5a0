package helpers

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// ConfigToGenericMap renders cfg through its yaml tags so keys match the
// config file layout.
func ConfigToGenericMap(cfg domain.Config) (interface{}, error) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to generic map: %w", err)
	}
	return generic, nil
}

// TraverseNestedMap navigates through nested maps using a key path
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}

	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[keyPath[0]]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, keyPath[1:])
	default:
		return nil, false
	}
}

// EventStats summarizes journaled events.
type EventStats struct {
	Probes         int
	HealthyProbes  int
	Cycles         int
	Restarts       int
	RestartsOK     int
	RestartsFailed int
	Skipped        int
	ByInstance     []InstanceStatistic
}

// InstanceStatistic counts restart attempts for one instance.
type InstanceStatistic struct {
	InstanceID string
	Count      int
}

// SummarizeEvents tallies records by kind and outcome.
func SummarizeEvents(records []domain.EventRecord) EventStats {
	var stats EventStats
	perInstance := make(map[string]int)

	for _, rec := range records {
		switch rec.Kind {
		case domain.EventProbe:
			stats.Probes++
			if rec.Healthy {
				stats.HealthyProbes++
			}
		case domain.EventRemediation:
			stats.Cycles++
		case domain.EventRestart:
			switch rec.Outcome {
			case string(domain.OutcomeSkipped):
				stats.Skipped++
			case string(domain.OutcomeSucceeded):
				stats.Restarts++
				stats.RestartsOK++
				perInstance[rec.InstanceID]++
			default:
				stats.Restarts++
				stats.RestartsFailed++
				perInstance[rec.InstanceID]++
			}
		}
	}

	stats.ByInstance = topInstances(perInstance)
	return stats
}

// topInstances sorts by count (descending) then by ID (ascending)
func topInstances(counts map[string]int) []InstanceStatistic {
	out := make([]InstanceStatistic, 0, len(counts))
	for id, n := range counts {
		out = append(out, InstanceStatistic{InstanceID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].InstanceID < out[j].InstanceID
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(total) * 100.0
}
