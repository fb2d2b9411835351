// FILE: chassis/cmd/chassis/app/init.go
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chassis"
	"chassis/internal/logger"
)

// newInitCmd creates the scaffold command.
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write starter configuration artifacts",
		Long: `Init writes a starter chassis.toml populated with every field's default and
a documented .env.example into the target directory (default "."). Existing
files are left alone unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().Bool("force", false, "Overwrite existing files")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	prefix, err := cmd.Flags().GetString("env-prefix")
	if err != nil {
		return err
	}

	registry, err := chassis.DefaultRegistry()
	if err != nil {
		return err
	}

	tomlPath := filepath.Join(dir, appName+".toml")
	if err := writeArtifact(tomlPath, force, func(path string) error {
		return chassis.WriteTOMLExample(registry, path)
	}); err != nil {
		return err
	}

	envPath := filepath.Join(dir, ".env.example")
	return writeArtifact(envPath, force, func(path string) error {
		return chassis.WriteEnvExample(registry, prefix, path)
	})
}

// writeArtifact writes one scaffold file, refusing to overwrite without
// force.
func writeArtifact(path string, force bool, write func(string) error) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			logger.Warnf("%s already exists, skipping (use --force to overwrite)", path)
			return nil
		}
	}

	if err := write(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Infof("wrote %s", path)
	return nil
}
