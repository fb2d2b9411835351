// FILE: chassis/cmd/chassis/app/commands.go
// Package app provides the entry point for the chassis command-line
// application.
package app

import (
	"errors"

	"github.com/spf13/cobra"

	"chassis"
	"chassis/internal/logger"
)

// appName is used for config file discovery and generated artifact names.
const appName = "chassis"

// NewRootCmd creates the root command for the chassis CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "chassis",
		DisableAutoGenTag: true,
		Short:             "Chassis resolves configuration and assembles the component stack of a generated web application",
		Long: `Chassis is the configuration and stack-assembly layer of a generated web
application. It resolves declared fields from environment variables, a TOML
configuration file, and defaults, then assembles the ordered application,
middleware, context processor, and finder lists the application boots with.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				logger.Errorf("Error displaying help: %v", err)
			}
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Initialize(false)
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file (discovered when empty)")
	rootCmd.PersistentFlags().String("env-prefix", "", "Prefix prepended to every field's environment key")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newEnvfileCmd())
	rootCmd.AddCommand(newAssetsCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

// configFile returns the configuration file to use: the --config flag when
// set, otherwise the discovered file. found is false when neither yields one.
func configFile(cmd *cobra.Command) (path string, found bool, err error) {
	path, err = cmd.Flags().GetString("config")
	if err != nil {
		return "", false, err
	}
	if path != "" {
		return path, true, nil
	}

	path, found = chassis.DiscoverFile(chassis.DefaultDiscoveryOptions(appName))
	return path, found, nil
}

// newBuilder assembles a settings builder honoring the persistent --config
// and --env-prefix flags.
func newBuilder(cmd *cobra.Command) (*chassis.Builder, error) {
	prefix, err := cmd.Flags().GetString("env-prefix")
	if err != nil {
		return nil, err
	}

	b := chassis.NewBuilder().WithEnvPrefix(prefix)

	path, found, err := configFile(cmd)
	if err != nil {
		return nil, err
	}
	if found {
		b = b.WithFile(path)
	}
	return b, nil
}

// buildSettings resolves the full stock profile. A missing configuration
// file is not fatal: the profile runs on environment variables and defaults.
func buildSettings(cmd *cobra.Command) (*chassis.Settings, error) {
	b, err := newBuilder(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := b.Build()
	if err != nil {
		if errors.Is(err, chassis.ErrConfigNotFound) {
			logger.Debugf("no configuration file found, using environment and defaults")
			return settings, nil
		}
		return nil, err
	}
	return settings, nil
}
