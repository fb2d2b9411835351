// FILE: chassis/cmd/chassis/app/version.go
package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is injected at build time via
// -ldflags "-X chassis/cmd/chassis/app.version=v1.2.3".
var version = "dev"

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chassis %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
		},
	}
}
