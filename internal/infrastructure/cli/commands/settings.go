package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	configinfra "github.com/doeshing/ec2-healthwatch/internal/infrastructure/config"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Settings holds flag values shared by every command. Only flags the user
// actually set override the file and environment.
type Settings struct {
	ConfigPath         string
	Interval           int
	Threshold          int
	Timeout            int
	Marker             string
	InsecureSkipVerify bool
	TagKey             string
	TagValue           string
	PollDelay          int
	MaxAttempts        int
	Region             string
	LogFile            string
	Verbose            bool
	History            bool
	HistoryPath        string
}

// Bind registers the shared flags as persistent flags on root.
func (s *Settings) Bind(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&s.ConfigPath, "config", "", "YAML config file (default $"+configinfra.ConfigEnvVar+")")
	f.IntVar(&s.Interval, "interval", domain.DefaultIntervalSeconds, "Check interval in seconds")
	f.IntVar(&s.Threshold, "threshold", domain.DefaultFailureThreshold, "Consecutive failures before remediation")
	f.IntVar(&s.Timeout, "timeout", domain.DefaultProbeTimeoutSeconds, "Probe timeout in seconds")
	f.StringVar(&s.Marker, "marker", domain.DefaultHealthMarker, "Text a healthy response body must contain")
	f.BoolVar(&s.InsecureSkipVerify, "insecure-skip-verify", domain.DefaultInsecureSkipVerify, "Skip TLS certificate verification")
	f.StringVar(&s.TagKey, "tag-key", domain.DefaultTagKey, "Tag key selecting instances to restart")
	f.StringVar(&s.TagValue, "tag-value", domain.DefaultTagValue, "Tag value selecting instances to restart")
	f.IntVar(&s.PollDelay, "poll-delay", domain.DefaultPollDelaySeconds, "Seconds between instance state polls")
	f.IntVar(&s.MaxAttempts, "max-attempts", domain.DefaultMaxAttempts, "State polls before a wait step fails")
	f.StringVar(&s.Region, "region", "", "AWS region (default $AWS_REGION, $AWS_DEFAULT_REGION, then "+domain.DefaultRegion+")")
	f.StringVar(&s.LogFile, "log-file", domain.DefaultLogFile, "Log file appended alongside console output (empty disables)")
	f.BoolVarP(&s.Verbose, "verbose", "v", s.Verbose, "Enable debug logging")
	f.BoolVar(&s.History, "history", false, "Journal verdicts and restarts to SQLite")
	f.StringVar(&s.HistoryPath, "history-path", domain.DefaultHistoryPath, "SQLite journal path")
}

// Resolve merges defaults, the config file, the environment and changed
// flags. A non-empty endpoint argument wins over everything.
func (s *Settings) Resolve(cmd *cobra.Command, endpoint string) (domain.Config, error) {
	var provider ports.ConfigProvider = configinfra.NewFileLoader(s.ConfigPath)
	cfg, err := provider.Load(cmd.Context())
	if err != nil {
		return domain.Config{}, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.IntervalSeconds = s.Interval
	}
	if flags.Changed("threshold") {
		cfg.FailureThreshold = s.Threshold
	}
	if flags.Changed("timeout") {
		cfg.Probe.TimeoutSeconds = s.Timeout
	}
	if flags.Changed("marker") {
		cfg.Probe.Marker = s.Marker
	}
	if flags.Changed("insecure-skip-verify") {
		cfg.Probe.InsecureSkipVerify = s.InsecureSkipVerify
	}
	if flags.Changed("tag-key") {
		cfg.Target.TagKey = s.TagKey
	}
	if flags.Changed("tag-value") {
		cfg.Target.TagValue = s.TagValue
	}
	if flags.Changed("poll-delay") {
		cfg.Remediation.PollDelaySeconds = s.PollDelay
	}
	if flags.Changed("max-attempts") {
		cfg.Remediation.MaxAttempts = s.MaxAttempts
	}
	if flags.Changed("region") {
		cfg.AWS.Region = s.Region
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = s.LogFile
	}
	if s.Verbose {
		cfg.Logging.Verbose = true
	}
	if flags.Changed("history") {
		cfg.History.Enabled = s.History
	}
	if flags.Changed("history-path") {
		cfg.History.Path = s.HistoryPath
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	return cfg, nil
}
