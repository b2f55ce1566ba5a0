package domain

import "time"

// Config mirrors the optional monitor.yaml file. Flags and environment are
// merged on top of it by the CLI.
type Config struct {
	Endpoint         string            `yaml:"endpoint,omitempty"`
	IntervalSeconds  int               `yaml:"interval_seconds"`
	FailureThreshold int               `yaml:"failure_threshold"`
	Probe            ProbeSettings     `yaml:"probe"`
	Target           TargetSettings    `yaml:"target"`
	Remediation      RemediationPolicy `yaml:"remediation"`
	AWS              AWSSettings       `yaml:"aws"`
	Logging          LoggingSettings   `yaml:"logging"`
	History          HistorySettings   `yaml:"history"`
}

// ProbeSettings configures the HTTP health probe.
type ProbeSettings struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Marker         string `yaml:"marker"`
	// InsecureSkipVerify disables TLS certificate validation. It defaults to
	// true so self-signed endpoints can be monitored.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// TargetSettings selects the instances restarted during remediation.
type TargetSettings struct {
	TagKey   string `yaml:"tag_key"`
	TagValue string `yaml:"tag_value"`
}

// RemediationPolicy is the wait budget applied to each stop and start step.
type RemediationPolicy struct {
	PollDelaySeconds int `yaml:"poll_delay_seconds"`
	MaxAttempts      int `yaml:"max_attempts"`
}

// AWSSettings holds provider connection settings.
type AWSSettings struct {
	Region string `yaml:"region"`
}

// LoggingSettings controls log sinks.
type LoggingSettings struct {
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

// HistorySettings controls the optional event journal.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Interval returns the tick interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// ProbeTimeout returns the per-request probe timeout.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Probe.TimeoutSeconds) * time.Second
}

// PollDelay returns the delay between state polls while waiting on an instance.
func (c Config) PollDelay() time.Duration {
	return time.Duration(c.Remediation.PollDelaySeconds) * time.Second
}
