package config

import (
	"errors"
	"fmt"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// Validate ensures the merged configuration can drive the monitor. Every
// problem is reported, not just the first.
func Validate(cfg domain.Config) error {
	var errs []error
	if cfg.IntervalSeconds <= 0 {
		errs = append(errs, fmt.Errorf("interval_seconds must be > 0, got %d", cfg.IntervalSeconds))
	}
	if cfg.FailureThreshold < 1 {
		errs = append(errs, fmt.Errorf("failure_threshold must be >= 1, got %d", cfg.FailureThreshold))
	}
	if cfg.Endpoint != "" {
		if _, err := domain.ParseEndpoint(cfg.Endpoint); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, validateProbe(cfg.Probe), validateTarget(cfg.Target),
		validateRemediation(cfg.Remediation), validateHistory(cfg.History))
	return errors.Join(errs...)
}

// ValidateForRun additionally requires an endpoint.
func ValidateForRun(cfg domain.Config) error {
	if cfg.Endpoint == "" {
		return errors.Join(errors.New("endpoint is required"), Validate(cfg))
	}
	return Validate(cfg)
}

func validateProbe(p domain.ProbeSettings) error {
	if p.TimeoutSeconds <= 0 {
		return fmt.Errorf("probe.timeout_seconds must be > 0, got %d", p.TimeoutSeconds)
	}
	if p.Marker == "" {
		return errors.New("probe.marker must not be empty")
	}
	return nil
}

func validateTarget(t domain.TargetSettings) error {
	if t.TagKey == "" {
		return errors.New("target.tag_key must not be empty")
	}
	return nil
}

func validateRemediation(r domain.RemediationPolicy) error {
	if r.PollDelaySeconds <= 0 {
		return fmt.Errorf("remediation.poll_delay_seconds must be > 0, got %d", r.PollDelaySeconds)
	}
	if r.MaxAttempts < 1 {
		return fmt.Errorf("remediation.max_attempts must be >= 1, got %d", r.MaxAttempts)
	}
	return nil
}

func validateHistory(h domain.HistorySettings) error {
	if h.Enabled && h.Path == "" {
		return errors.New("history.path must be set when history is enabled")
	}
	return nil
}
