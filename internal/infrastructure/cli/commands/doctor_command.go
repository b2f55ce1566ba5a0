package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/ec2-healthwatch/internal/app"
	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(settings *Settings, opts app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [endpoint]",
		Short: "Check configuration, endpoint and AWS access without restarting anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var endpoint string
			if len(args) == 1 {
				endpoint = args[0]
			}
			return runDoctorDiagnostics(cmd, cmd.OutOrStdout(), settings, opts, endpoint)
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(cmd *cobra.Command, out io.Writer, settings *Settings, opts app.Options, endpoint string) error {
	cfg, err := settings.Resolve(cmd, endpoint)
	if err != nil {
		return err
	}
	// Diagnostics print a report; they never append to the monitor log.
	cfg.Logging.File = ""
	if opts.Console == nil {
		opts.Console = cmd.ErrOrStderr()
	}

	container, err := app.BuildContainer(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	defer container.Close()

	if container.Doctor == nil {
		return fmt.Errorf(ErrDoctorServiceUnavailable)
	}

	report, err := container.Doctor.Run(cmd.Context())

	// Display report even if there were errors
	displayDoctorReport(out, report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	return nil
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		fmt.Fprintf(out, "[%s] %s - %s\n",
			strings.ToUpper(string(check.Status)),
			check.Name,
			check.Details)
	}
}
