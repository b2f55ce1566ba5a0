package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

func newBoundCommand(t *testing.T, args ...string) (*cobra.Command, *Settings) {
	t.Helper()
	settings := &Settings{}
	cmd := &cobra.Command{Use: "test"}
	settings.Bind(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	return cmd, settings
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolvePrecedence(t *testing.T) {
	t.Setenv(domain.RegionEnvVar, "")
	t.Setenv(domain.RegionFallbackEnvVar, "ap-south-1")
	path := writeConfig(t, `interval_seconds: 30
failure_threshold: 4
aws:
  region: us-west-2
target:
  tag_key: Tier
`)

	cmd, settings := newBoundCommand(t, "--config", path, "--threshold", "3", "--tag-value", "api")
	cfg, err := settings.Resolve(cmd, "https://app.example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if cfg.IntervalSeconds != 30 {
		t.Errorf("interval from file: got %d", cfg.IntervalSeconds)
	}
	if cfg.FailureThreshold != 3 {
		t.Errorf("threshold flag must win over file: got %d", cfg.FailureThreshold)
	}
	if cfg.AWS.Region != "ap-south-1" {
		t.Errorf("environment region must win over file: got %q", cfg.AWS.Region)
	}
	if cfg.Target.TagKey != "Tier" || cfg.Target.TagValue != "api" {
		t.Errorf("unexpected target %+v", cfg.Target)
	}
	if cfg.Endpoint != "https://app.example.com" {
		t.Errorf("endpoint argument not applied: %q", cfg.Endpoint)
	}
	if cfg.Remediation.PollDelaySeconds != domain.DefaultPollDelaySeconds {
		t.Errorf("unset values keep defaults, got poll delay %d", cfg.Remediation.PollDelaySeconds)
	}
}

func TestResolveIgnoresUnchangedFlagDefaults(t *testing.T) {
	t.Setenv("MONITOR_CONFIG", "")
	t.Setenv(domain.RegionEnvVar, "")
	t.Setenv(domain.RegionFallbackEnvVar, "")
	path := writeConfig(t, "interval_seconds: 45\nprobe:\n  insecure_skip_verify: false\n")

	cmd, settings := newBoundCommand(t, "--config", path)
	cfg, err := settings.Resolve(cmd, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Interval() != 45*time.Second {
		t.Errorf("flag default must not override file, got %s", cfg.Interval())
	}
	if cfg.Probe.InsecureSkipVerify {
		t.Error("file disabled insecure_skip_verify; unchanged flag must not re-enable it")
	}

	cmd, settings = newBoundCommand(t, "--config", path, "--insecure-skip-verify=true", "--region", "eu-central-1", "-v")
	cfg, err = settings.Resolve(cmd, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !cfg.Probe.InsecureSkipVerify || cfg.AWS.Region != "eu-central-1" || !cfg.Logging.Verbose {
		t.Errorf("explicit flags not applied: %+v", cfg)
	}
}

func TestResolveMissingExplicitConfig(t *testing.T) {
	cmd, settings := newBoundCommand(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := settings.Resolve(cmd, ""); err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load error, got %v", err)
	}
}
