package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/ec2-healthwatch/assets"
	configapp "github.com/doeshing/ec2-healthwatch/internal/application/config"
	"github.com/doeshing/ec2-healthwatch/internal/domain"
	"github.com/doeshing/ec2-healthwatch/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/ec2-healthwatch/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(settings *Settings) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective monitor configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, cmd.OutOrStdout(), settings)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(settings),
		newConfigGetCommand(settings),
		newConfigValidateCommand(settings),
		newConfigDiffCommand(settings),
		newConfigExampleCommand(),
	)
	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd, cmd.OutOrStdout(), settings)
		},
	}
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(settings *Settings) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a specific configuration value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf(ErrKeyRequired)
			}
			return getConfigurationValue(cmd, cmd.OutOrStdout(), settings, key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key path (e.g., remediation.poll_delay_seconds)")
	return cmd
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the merged configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := settings.Resolve(cmd, "")
			if err != nil {
				return err
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(settings *Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd, cmd.OutOrStdout(), settings)
		},
	}
}

// newConfigExampleCommand creates the 'config example' subcommand
func newConfigExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an annotated config file with the built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(assets.ExampleConfigYAML)
			return err
		},
	}
}

// showConfiguration displays the full configuration in YAML format
func showConfiguration(cmd *cobra.Command, out io.Writer, settings *Settings) error {
	cfg, err := settings.Resolve(cmd, "")
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// getConfigurationValue retrieves a specific configuration value by key path
func getConfigurationValue(cmd *cobra.Command, out io.Writer, settings *Settings, keyPath string) error {
	cfg, err := settings.Resolve(cmd, "")
	if err != nil {
		return err
	}

	genericMap, err := helpers.ConfigToGenericMap(cfg)
	if err != nil {
		return err
	}

	value, found := helpers.TraverseNestedMap(genericMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// showConfigurationDiff shows the difference between the effective and default configuration
func showConfigurationDiff(cmd *cobra.Command, out io.Writer, settings *Settings) error {
	currentConfig, err := settings.Resolve(cmd, "")
	if err != nil {
		return err
	}

	diff := configDiff(configinfra.DefaultConfig(), currentConfig)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

func configDiff(defaults, current domain.Config) string {
	return cmp.Diff(defaults, current)
}
