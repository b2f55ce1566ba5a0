package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	infraconfig "github.com/doeshing/ec2-healthwatch/internal/infrastructure/config"
)

type nopCompute struct{}

func (nopCompute) DescribeInstances(context.Context, domain.InstanceFilter) ([]domain.InstanceDescriptor, error) {
	return nil, nil
}
func (nopCompute) StopInstance(context.Context, string) error  { return nil }
func (nopCompute) StartInstance(context.Context, string) error { return nil }
func (nopCompute) InstanceState(context.Context, string) (domain.LifecycleState, error) {
	return domain.StateRunning, nil
}

func TestBuildContainerWiresMonitor(t *testing.T) {
	dir := t.TempDir()
	cfg := infraconfig.DefaultConfig()
	cfg.Endpoint = "https://test.example.com"
	cfg.FailureThreshold = 4
	cfg.Logging.File = filepath.Join(dir, "monitor.log")
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(dir, "history.db")

	var console bytes.Buffer
	c, err := BuildContainer(context.Background(), cfg, Options{Console: &console, Compute: nopCompute{}})
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}
	defer c.Close()

	if c.Probe == nil || c.Events == nil {
		t.Fatalf("expected probe and journal, got %+v", c)
	}
	opts := c.Monitor.Options
	if opts.FailureThreshold != 4 || opts.Interval.Seconds() != 10 || opts.TagValue != "web-server" {
		t.Fatalf("unexpected monitor options %+v", opts)
	}
	if c.Monitor.Events == nil || c.Doctor.Events == nil {
		t.Fatal("journal not wired into services")
	}
}

func TestBuildContainerWithoutEndpointOrHistory(t *testing.T) {
	cfg := infraconfig.DefaultConfig()
	cfg.Logging.File = ""

	c, err := BuildContainer(context.Background(), cfg, Options{Console: &bytes.Buffer{}, Compute: nopCompute{}})
	if err != nil {
		t.Fatalf("BuildContainer() error = %v", err)
	}
	defer c.Close()

	if c.Probe != nil || c.Events != nil {
		t.Fatalf("expected no probe and no journal, got probe=%v events=%v", c.Probe, c.Events)
	}
	if err := c.Monitor.Run(context.Background()); err == nil {
		t.Fatal("expected monitor to refuse to run without a probe")
	}
}

func TestBuildContainerRejectsBadEndpoint(t *testing.T) {
	cfg := infraconfig.DefaultConfig()
	cfg.Endpoint = "example.com"
	cfg.Logging.File = ""

	if _, err := BuildContainer(context.Background(), cfg, Options{Console: &bytes.Buffer{}, Compute: nopCompute{}}); err == nil {
		t.Fatal("expected endpoint error")
	}
}
