// FILE: chassis/cmd/chassis/app/assets.go
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"chassis"
	"chassis/internal/logger"
	"chassis/toolchain"
)

// newAssetsCmd creates the asset toolchain command group.
func newAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Run the CSS build toolchain",
	}
	cmd.AddCommand(newAssetsBuildCmd())
	cmd.AddCommand(newAssetsWatchCmd())
	return cmd
}

// newAssetsBuildCmd creates the one-shot stylesheet build command.
func newAssetsBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Compile the stylesheet once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, chassis.AssetSettings.BuildArgs)
		},
	}
}

// newAssetsWatchCmd creates the rebuild-on-change command.
func newAssetsWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the stylesheet on change until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTool(cmd, chassis.AssetSettings.WatchArgs)
		},
	}
}

// runTool resolves settings, locates the tool binary, and supervises one
// invocation. Cancellation through the command context is a clean exit.
func runTool(cmd *cobra.Command, argsFor func(chassis.AssetSettings) ([]string, error)) error {
	settings, err := buildSettings(cmd)
	if err != nil {
		return err
	}

	path, err := toolchain.Find(toolchain.DefaultTool, settings.Assets.ToolPath)
	if err != nil {
		return err
	}

	args, err := argsFor(settings.Assets)
	if err != nil {
		return err
	}

	logger.Infof("running %s %s", path, strings.Join(args, " "))
	runner := toolchain.NewRunner(path, args, logger.Get())
	if err := runner.Run(cmd.Context()); err != nil {
		if errors.Is(err, context.Canceled) || cmd.Context().Err() != nil {
			logger.Debugf("tool stopped: %v", err)
			return nil
		}
		return err
	}
	return nil
}
