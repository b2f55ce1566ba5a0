package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// LogFilePermissions is the permission for the log file (rw-r--r--)
	LogFilePermissions = 0o644
)

// Monitor loop defaults
const (
	DefaultIntervalSeconds  = 10
	DefaultFailureThreshold = 2
)

// Probe defaults
const (
	DefaultProbeTimeoutSeconds = 30
	// DefaultHealthMarker must appear in a 200 response body for it to count as healthy.
	DefaultHealthMarker       = "Deployed via SSM Document"
	DefaultInsecureSkipVerify = true
)

// Remediation defaults: 15s x 20 gives a five minute ceiling per wait step.
const (
	DefaultTagKey           = "Role"
	DefaultTagValue         = "web-server"
	DefaultPollDelaySeconds = 15
	DefaultMaxAttempts      = 20
)

// Provider defaults
const (
	DefaultRegion = "us-east-1"
	// RegionEnvVar is consulted first, then RegionFallbackEnvVar.
	RegionEnvVar         = "AWS_REGION"
	RegionFallbackEnvVar = "AWS_DEFAULT_REGION"
)

// Logging and history defaults
const (
	DefaultLogFile      = "monitor.log"
	DefaultHistoryPath  = "monitor-history.db"
	DefaultHistoryLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
