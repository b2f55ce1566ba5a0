package app

import (
	"context"
	"errors"
	"io"

	"github.com/doeshing/ec2-healthwatch/internal/application/doctor"
	"github.com/doeshing/ec2-healthwatch/internal/application/monitor"
	"github.com/doeshing/ec2-healthwatch/internal/application/remediation"
	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/compute"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/history"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/probe"
	"github.com/doeshing/ec2-healthwatch/internal/pkg/logger"
	"github.com/doeshing/ec2-healthwatch/internal/pkg/wait"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Options holds process-level wiring choices that are not part of Config.
type Options struct {
	Console io.Writer
	// Compute replaces the EC2 client; tests use it to avoid the AWS SDK.
	Compute ports.ComputeAPI
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config  domain.Config
	Logger  *logger.StdLogger
	Probe   ports.HealthProbe
	Compute ports.ComputeAPI
	Events  ports.EventRepository
	Monitor *monitor.Service
	Doctor  *doctor.Service
}

// BuildContainer constructs the dependency graph for an already merged and
// validated configuration.
func BuildContainer(ctx context.Context, cfg domain.Config, opts Options) (*Container, error) {
	log, err := logger.New(logger.Options{
		Verbose: cfg.Logging.Verbose,
		Console: opts.Console,
		File:    cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: log}

	if cfg.Endpoint != "" {
		endpoint, err := domain.ParseEndpoint(cfg.Endpoint)
		if err != nil {
			log.Close()
			return nil, err
		}
		c.Probe = probe.NewHTTPProbe(probe.Options{
			Endpoint:           endpoint,
			Timeout:            cfg.ProbeTimeout(),
			Marker:             cfg.Probe.Marker,
			InsecureSkipVerify: cfg.Probe.InsecureSkipVerify,
		})
	}

	c.Compute = opts.Compute
	if c.Compute == nil {
		ec2Compute, err := compute.NewEC2(ctx, cfg.AWS.Region)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Compute = ec2Compute
	}

	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Events = store
	}

	restarter := &remediation.InstanceRestarter{
		Compute: c.Compute,
		Policy:  wait.Policy{Delay: cfg.PollDelay(), MaxAttempts: cfg.Remediation.MaxAttempts},
		Logger:  log,
	}

	c.Monitor = &monitor.Service{
		Probe:      c.Probe,
		Directory:  &remediation.Directory{Compute: c.Compute, Logger: log},
		Remediator: &remediation.Orchestrator{Remediator: restarter, Logger: log, Events: c.Events},
		Logger:     log,
		Events:     c.Events,
		Options: monitor.Options{
			Endpoint:         domain.Endpoint(cfg.Endpoint),
			Interval:         cfg.Interval(),
			FailureThreshold: cfg.FailureThreshold,
			TagKey:           cfg.Target.TagKey,
			TagValue:         cfg.Target.TagValue,
		},
	}

	c.Doctor = &doctor.Service{
		Config:  cfg,
		Probe:   c.Probe,
		Compute: c.Compute,
		Events:  c.Events,
	}

	return c, nil
}

// Close releases the journal and the log file.
func (c *Container) Close() error {
	var errs []error
	if c.Events != nil {
		errs = append(errs, c.Events.Close())
	}
	if c.Logger != nil {
		errs = append(errs, c.Logger.Close())
	}
	return errors.Join(errs...)
}
