// Package monitor runs the probe, count, remediate loop.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// State is the lifecycle state of the loop.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Options is fixed at construction.
type Options struct {
	Endpoint         domain.Endpoint
	Interval         time.Duration
	FailureThreshold int
	TagKey           string
	TagValue         string
}

// Service owns the failure counter and the run state. The counter is only
// touched by the goroutine executing Run (or Tick).
type Service struct {
	Probe      ports.HealthProbe
	Directory  ports.InstanceDirectory
	Remediator ports.Remediator
	Logger     ports.Logger
	// Events is optional; nil disables journaling.
	Events  ports.EventRepository
	Options Options

	failures int
	state    atomic.Int32
}

// Failures returns the current consecutive-failure count.
func (s *Service) Failures() int {
	return s.failures
}

// State reports whether the loop is idle, running or stopped.
func (s *Service) State() State {
	return State(s.state.Load())
}

func (s *Service) validate() error {
	if s.Probe == nil || s.Directory == nil || s.Remediator == nil || s.Logger == nil {
		return errors.New("monitor.Service dependencies not satisfied")
	}
	if s.Options.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %s", s.Options.Interval)
	}
	if s.Options.FailureThreshold < 1 {
		return fmt.Errorf("failure threshold must be >= 1, got %d", s.Options.FailureThreshold)
	}
	return nil
}

// Run ticks until ctx is cancelled. Cancellation is observed at the top of
// each tick and while sleeping; an in-flight tick always runs to completion.
func (s *Service) Run(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}

	s.state.Store(int32(StateRunning))
	defer s.state.Store(int32(StateStopped))

	s.Logger.Info("starting health monitoring", map[string]interface{}{
		"endpoint":  s.Options.Endpoint.String(),
		"interval":  s.Options.Interval.String(),
		"threshold": s.Options.FailureThreshold,
	})

	for ctx.Err() == nil {
		if err := s.Tick(context.WithoutCancel(ctx)); err != nil {
			s.Logger.Error("unexpected error in monitoring loop", err, nil)
		}
		if !sleep(ctx, s.Options.Interval) {
			break
		}
	}

	s.Logger.Info("health monitoring stopped", nil)
	return nil
}

// Tick performs one probe and, when the threshold is reached, one
// remediation cycle. A panic anywhere in the tick is returned as an error.
func (s *Service) Tick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during tick: %v", r)
		}
	}()

	verdict := s.Probe.Check(ctx)
	s.record(domain.EventRecord{
		Timestamp: verdict.CheckedAt,
		Kind:      domain.EventProbe,
		Endpoint:  s.Options.Endpoint.String(),
		Healthy:   verdict.Healthy,
		Details:   verdict.Message,
	})

	if verdict.Healthy {
		s.Logger.Info("endpoint healthy", map[string]interface{}{
			"status":  verdict.StatusCode,
			"latency": verdict.Latency.Round(time.Millisecond).String(),
		})
		if s.failures > 0 {
			s.Logger.Info("endpoint recovered", map[string]interface{}{"after_failures": s.failures})
		}
		s.failures = 0
		return nil
	}

	s.failures++
	s.Logger.Warn("endpoint unhealthy", map[string]interface{}{
		"status": verdict.StatusCode,
		"reason": verdict.Message,
	})
	s.Logger.Warn("consecutive failures", map[string]interface{}{"count": s.failures})

	if s.failures < s.Options.FailureThreshold {
		return nil
	}

	// The target always gets a fresh window after an attempt, whatever its outcome.
	defer func() { s.failures = 0 }()

	s.Logger.Error("consecutive failure threshold reached, triggering auto-remediation", nil, map[string]interface{}{
		"count": s.failures,
		"tag":   s.Options.TagKey + "=" + s.Options.TagValue,
	})
	targets := s.Directory.ListTargets(ctx, s.Options.TagKey, s.Options.TagValue)
	summary := s.Remediator.RemediateAll(ctx, targets)
	s.Logger.Info("remediation attempt finished", map[string]interface{}{
		"cycle":     summary.CycleID,
		"attempted": summary.Attempted,
		"succeeded": summary.Succeeded,
	})
	return nil
}

func (s *Service) record(rec domain.EventRecord) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Save(rec); err != nil {
		s.Logger.Warn("journal write failed", map[string]interface{}{"error": err.Error()})
	}
}

// sleep waits for d and reports false if ctx was cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
