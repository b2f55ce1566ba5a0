package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/ec2-healthwatch/internal/app"
	configapp "github.com/doeshing/ec2-healthwatch/internal/application/config"
	"github.com/doeshing/ec2-healthwatch/internal/domain"
)

// ErrUsage marks errors caused by bad command-line input.
var ErrUsage = errors.New("usage error")

// RunMonitor returns the RunE of the root command: validate the endpoint,
// build the container and block in the monitor loop until the command
// context is cancelled.
func RunMonitor(settings *Settings, opts app.Options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		endpoint, err := domain.ParseEndpoint(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}

		cfg, err := settings.Resolve(cmd, endpoint.String())
		if err != nil {
			return err
		}
		if err := configapp.ValidateForRun(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		if opts.Console == nil {
			opts.Console = cmd.OutOrStdout()
		}
		container, err := app.BuildContainer(cmd.Context(), cfg, opts)
		if err != nil {
			return err
		}
		defer container.Close()

		log := container.Logger
		log.Info("health monitor initialized", map[string]interface{}{
			"endpoint":  cfg.Endpoint,
			"region":    cfg.AWS.Region,
			"interval":  cfg.Interval().String(),
			"threshold": cfg.FailureThreshold,
			"target":    cfg.Target.TagKey + "=" + cfg.Target.TagValue,
		})
		if cfg.Probe.InsecureSkipVerify {
			log.Warn("TLS certificate verification disabled", nil)
		}
		if container.Events != nil {
			log.Info("journaling events", map[string]interface{}{"path": container.Events.Path()})
		}

		ctx, stop := WithShutdownSignals(cmd.Context(), log)
		defer stop()
		return container.Monitor.Run(ctx)
	}
}
