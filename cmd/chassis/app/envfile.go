// FILE: chassis/cmd/chassis/app/envfile.go
package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"chassis"
	"chassis/internal/logger"
)

// newEnvfileCmd creates the env file generation command.
func newEnvfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envfile",
		Short: "Generate a documented example environment file",
		Long: `Envfile renders every registered field that carries an environment key as a
commented example assignment, grouped by field group. With --output the file
is written atomically, otherwise it goes to stdout.`,
		RunE: runEnvfile,
	}
	cmd.Flags().StringP("output", "o", "", "Write to this path instead of stdout")
	return cmd
}

func runEnvfile(cmd *cobra.Command, _ []string) error {
	prefix, err := cmd.Flags().GetString("env-prefix")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	registry, err := chassis.DefaultRegistry()
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprint(cmd.OutOrStdout(), chassis.EnvExample(registry, prefix))
		return nil
	}

	if err := chassis.WriteEnvExample(registry, prefix, output); err != nil {
		return err
	}
	logger.Infof("wrote %s", output)
	return nil
}
