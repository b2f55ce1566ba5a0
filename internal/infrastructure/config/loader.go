package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// ConfigEnvVar names an optional YAML file when --config is not given.
const ConfigEnvVar = "MONITOR_CONFIG"

// FileLoader loads YAML configuration from an optional file and layers the
// region environment variables on top of it.
type FileLoader struct {
	overridePath string
	getenv       func(string) string
}

// NewFileLoader builds a new loader. An empty path falls back to
// $MONITOR_CONFIG, then to built-in defaults only.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path, getenv: os.Getenv}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg := DefaultConfig()

	path, explicit := l.resolvePath()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// optional file absent: defaults only
		default:
			return domain.Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg = hydrateDefaults(cfg)
	if region := ResolveRegion(l.getenv); region != "" {
		cfg.AWS.Region = region
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = domain.DefaultRegion
	}
	return cfg, nil
}

// Path returns the file the loader reads, or "" when running on defaults.
func (l *FileLoader) Path() string {
	path, _ := l.resolvePath()
	return path
}

func (l *FileLoader) resolvePath() (string, bool) {
	if l.overridePath != "" {
		return expandPath(l.overridePath), true
	}
	if custom := l.getenv(ConfigEnvVar); custom != "" {
		return expandPath(custom), true
	}
	return "", false
}

// ResolveRegion returns AWS_REGION, else AWS_DEFAULT_REGION, else "".
func ResolveRegion(getenv func(string) string) string {
	if region := getenv(domain.RegionEnvVar); region != "" {
		return region
	}
	return getenv(domain.RegionFallbackEnvVar)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() domain.Config {
	return domain.Config{
		IntervalSeconds:  domain.DefaultIntervalSeconds,
		FailureThreshold: domain.DefaultFailureThreshold,
		Probe: domain.ProbeSettings{
			TimeoutSeconds:     domain.DefaultProbeTimeoutSeconds,
			Marker:             domain.DefaultHealthMarker,
			InsecureSkipVerify: domain.DefaultInsecureSkipVerify,
		},
		Target: domain.TargetSettings{
			TagKey:   domain.DefaultTagKey,
			TagValue: domain.DefaultTagValue,
		},
		Remediation: domain.RemediationPolicy{
			PollDelaySeconds: domain.DefaultPollDelaySeconds,
			MaxAttempts:      domain.DefaultMaxAttempts,
		},
		AWS: domain.AWSSettings{
			Region: domain.DefaultRegion,
		},
		Logging: domain.LoggingSettings{
			File: domain.DefaultLogFile,
		},
		History: domain.HistorySettings{
			Enabled: false,
			Path:    domain.DefaultHistoryPath,
		},
	}
}

// hydrateDefaults fills zero values a partial file left unset.
func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.IntervalSeconds == 0 {
		cfg.IntervalSeconds = domain.DefaultIntervalSeconds
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = domain.DefaultFailureThreshold
	}
	if cfg.Probe.TimeoutSeconds == 0 {
		cfg.Probe.TimeoutSeconds = domain.DefaultProbeTimeoutSeconds
	}
	if cfg.Probe.Marker == "" {
		cfg.Probe.Marker = domain.DefaultHealthMarker
	}
	if cfg.Target.TagKey == "" {
		cfg.Target.TagKey = domain.DefaultTagKey
	}
	if cfg.Remediation.PollDelaySeconds == 0 {
		cfg.Remediation.PollDelaySeconds = domain.DefaultPollDelaySeconds
	}
	if cfg.Remediation.MaxAttempts == 0 {
		cfg.Remediation.MaxAttempts = domain.DefaultMaxAttempts
	}
	if cfg.History.Path == "" {
		cfg.History.Path = domain.DefaultHistoryPath
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
