// FILE: chassis/discovery.go
package chassis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// FileDiscoveryOptions configures automatic config file discovery.
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for an explicit path
	EnvVar string

	// CLI flag to check (e.g., "--config")
	CLIFlag string

	// Args to scan for CLIFlag, typically os.Args[1:]
	Args []string

	// Whether to search XDG config directories
	UseXDG bool

	// Whether to search the current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults for an application name.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".yaml", ".yml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		Args:          os.Args[1:],
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile locates a configuration file. Probing order: the CLI flag,
// then the environment variable, then custom paths, the current directory,
// and finally the XDG config directories. The second return is false when
// nothing is found, which is not an error: the profile can run on
// environment variables and defaults.
func DiscoverFile(opts FileDiscoveryOptions) (string, bool) {
	// CLI flag has the highest priority
	if opts.CLIFlag != "" {
		for i, arg := range opts.Args {
			if arg == opts.CLIFlag && i+1 < len(opts.Args) {
				return opts.Args[i+1], true
			}
			if strings.HasPrefix(arg, opts.CLIFlag+"=") {
				return strings.TrimPrefix(arg, opts.CLIFlag+"="), true
			}
		}
	}

	// Environment variable
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}

	// Build search paths
	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if _, err := os.Stat(path); err == nil {
				return path, true
			}
		}
	}

	// XDG config directories
	if opts.UseXDG {
		for _, ext := range opts.Extensions {
			rel := filepath.Join(opts.Name, opts.Name+ext)
			if path, err := xdg.SearchConfigFile(rel); err == nil {
				return path, true
			}
		}
	}

	return "", false
}
