package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/cli/helpers"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/history"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(settings *Settings) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the verdict and restart journal",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(settings),
		newHistoryStatsCommand(settings),
	)
	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(settings *Settings) *cobra.Command {
	var (
		limit int
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf(ErrInvalidLimit)
			}
			path, err := journalPath(cmd, settings)
			if err != nil {
				return err
			}
			return listHistoryEntries(cmd.OutOrStdout(), path, limit, domain.EventKind(kind))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	cmd.Flags().StringVar(&kind, "kind", "", "Only show probe, remediation or restart entries")
	return cmd
}

// newHistoryStatsCommand creates the 'history stats' subcommand
func newHistoryStatsCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show probe health ratio and restart success rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := journalPath(cmd, settings)
			if err != nil {
				return err
			}
			return showHistoryStats(cmd.OutOrStdout(), path)
		},
	}
}

func journalPath(cmd *cobra.Command, settings *Settings) (string, error) {
	cfg, err := settings.Resolve(cmd, "")
	if err != nil {
		return "", err
	}
	return cfg.History.Path, nil
}

// openExistingJournal returns nil when nothing was ever journaled, so
// reading never creates an empty database.
func openExistingJournal(path string) (*history.SQLiteStore, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat journal: %w", err)
	}
	return history.Open(path)
}

// listHistoryEntries prints journal records
func listHistoryEntries(out io.Writer, path string, limit int, kind domain.EventKind) error {
	store, err := openExistingJournal(path)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	defer store.Close()

	records, err := store.Records(limit, kind)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintln(out, formatRecord(rec))
	}
	return nil
}

func formatRecord(rec domain.EventRecord) string {
	fields := []string{
		rec.Timestamp.Local().Format(domain.TimestampFormat),
		humanize.Time(rec.Timestamp),
		string(rec.Kind),
	}

	switch rec.Kind {
	case domain.EventProbe:
		verdict := "unhealthy"
		if rec.Healthy {
			verdict = "healthy"
		}
		fields = append(fields, rec.Endpoint, verdict)
	case domain.EventRestart:
		fields = append(fields, rec.InstanceID, rec.Outcome)
	default:
		fields = append(fields, shortCycle(rec.CycleID), rec.Outcome)
	}
	if rec.Details != "" {
		fields = append(fields, rec.Details)
	}
	return strings.Join(fields, " | ")
}

func shortCycle(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// showHistoryStats prints aggregate counts over the whole journal
func showHistoryStats(out io.Writer, path string) error {
	store, err := openExistingJournal(path)
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}
	defer store.Close()

	records, err := store.Records(0, "")
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := helpers.SummarizeEvents(records)
	fmt.Fprintf(out, "Probes: %s (%.1f%% healthy)\n",
		humanize.Comma(int64(stats.Probes)),
		helpers.CalculateSuccessRate(stats.HealthyProbes, stats.Probes))
	fmt.Fprintf(out, "Remediation cycles: %s\n", humanize.Comma(int64(stats.Cycles)))
	fmt.Fprintf(out, "Restarts: %d succeeded, %d failed, %d skipped (%.1f%% success)\n",
		stats.RestartsOK, stats.RestartsFailed, stats.Skipped,
		helpers.CalculateSuccessRate(stats.RestartsOK, stats.Restarts))

	if len(stats.ByInstance) > 0 {
		fmt.Fprintln(out, "Most restarted instances:")
		for i, inst := range stats.ByInstance {
			if i == DefaultTopInstances {
				break
			}
			fmt.Fprintf(out, "  %s  %d\n", inst.InstanceID, inst.Count)
		}
	}
	return nil
}
