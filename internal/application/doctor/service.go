package doctor

import (
	"context"
	"fmt"

	configapp "github.com/doeshing/ec2-healthwatch/internal/application/config"
	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Service runs preflight diagnostics before the monitor is started.
type Service struct {
	Config  domain.Config
	Probe   ports.HealthProbe
	Compute ports.ComputeAPI
	Events  ports.EventRepository
}

// Run executes checks and returns a report. The error is non-nil when any
// check failed outright.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	if err := configapp.ValidateForRun(s.Config); err != nil {
		checks = append(checks, fail("Configuration", err.Error()))
	} else {
		checks = append(checks, ok("Configuration", fmt.Sprintf("interval %ds, threshold %d, wait %ds x %d",
			s.Config.IntervalSeconds, s.Config.FailureThreshold,
			s.Config.Remediation.PollDelaySeconds, s.Config.Remediation.MaxAttempts)))
	}

	checks = append(checks, s.tlsCheck())

	if s.Probe != nil {
		v := s.Probe.Check(ctx)
		if v.Healthy {
			checks = append(checks, ok("Endpoint", v.Message))
		} else {
			checks = append(checks, warn("Endpoint", v.Message))
		}
	} else {
		checks = append(checks, warn("Endpoint", "probe not initialized"))
	}

	checks = append(checks, ok("Region", s.Config.AWS.Region))

	if s.Compute != nil {
		checks = append(checks, discoveryCheck(ctx, s.Compute, s.Config.Target))
	} else {
		checks = append(checks, fail("Instance discovery", "compute client not initialized"))
	}

	if s.Events != nil {
		if _, err := s.Events.Records(1, ""); err != nil {
			checks = append(checks, fail("History journal", err.Error()))
		} else {
			checks = append(checks, ok("History journal", s.Events.Path()))
		}
	}

	report := domain.HealthReport{Checks: checks}
	if report.Failed() {
		return report, fmt.Errorf("one or more checks failed")
	}
	return report, nil
}

func (s *Service) tlsCheck() domain.HealthCheck {
	if s.Config.Probe.InsecureSkipVerify {
		return warn("TLS verification", "disabled (insecure_skip_verify=true)")
	}
	return ok("TLS verification", "enabled")
}

func discoveryCheck(ctx context.Context, compute ports.ComputeAPI, target domain.TargetSettings) domain.HealthCheck {
	tag := target.TagKey + "=" + target.TagValue
	found, err := compute.DescribeInstances(ctx, domain.TargetFilter(target.TagKey, target.TagValue))
	if err != nil {
		return fail("Instance discovery", err.Error())
	}
	if len(found) == 0 {
		return warn("Instance discovery", fmt.Sprintf("no instances tagged %s", tag))
	}
	return ok("Instance discovery", fmt.Sprintf("%d instance(s) tagged %s", len(found), tag))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
