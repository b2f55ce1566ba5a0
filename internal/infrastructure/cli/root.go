package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/ec2-healthwatch/internal/app"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/cli/commands"
	"github.com/doeshing/ec2-healthwatch/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// Compute replaces the EC2 client for every command.
	Compute ports.ComputeAPI
}

// NewRootCmd wires the cobra root command. The root itself runs the
// monitor; subcommands inspect configuration and the journal.
func NewRootCmd(opts Options) *cobra.Command {
	settings := &commands.Settings{Verbose: opts.Verbose}
	appOpts := app.Options{Compute: opts.Compute}

	root := &cobra.Command{
		Use:   "monitor <endpoint>",
		Short: "Restart tagged EC2 instances when a health endpoint keeps failing",
		Long: "monitor polls an HTTP(S) endpoint and, after consecutive failures, " +
			"stops and starts every EC2 instance carrying the target tag.",
		Args:          endpointArg,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.RunE = func(cmd *cobra.Command, args []string) error {
		err := commands.RunMonitor(settings, appOpts)(cmd, args)
		if errors.Is(err, commands.ErrUsage) {
			fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		}
		return err
	}

	settings.Bind(root)
	root.AddCommand(commands.NewDoctorCommand(settings, appOpts))
	root.AddCommand(commands.NewConfigCommand(settings))
	root.AddCommand(commands.NewHistoryCommand(settings))
	root.AddCommand(commands.NewVersionCommand())
	return root
}

func endpointArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return fmt.Errorf("%w: expected exactly one endpoint argument, got %d", commands.ErrUsage, len(args))
	}
	return nil
}
