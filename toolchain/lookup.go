// FILE: chassis/toolchain/lookup.go
package toolchain

import (
	"fmt"
	"os/exec"
)

// DefaultTool is the binary searched for when no explicit path is configured.
const DefaultTool = "tailwindcss"

// MissingToolError reports an external binary that could not be located.
type MissingToolError struct {
	Tool string // Binary name or path that was searched for
	Hint string // Remediation hint for the operator
}

// Error implements the error interface
func (e *MissingToolError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("tool %q not found", e.Tool)
	}
	return fmt.Sprintf("tool %q not found: %s", e.Tool, e.Hint)
}

// Find locates the tool binary. A non-empty override is resolved directly,
// so a configured path that does not exist or is not executable fails here
// rather than at process start. With no override, PATH is searched for the
// tool name.
func Find(tool, override string) (string, error) {
	candidate := tool
	if override != "" {
		candidate = override
	}

	path, err := exec.LookPath(candidate)
	if err != nil {
		return "", &MissingToolError{Tool: candidate, Hint: installHint(tool, override)}
	}
	return path, nil
}

func installHint(tool, override string) string {
	if override != "" {
		return "check the configured tool_path"
	}
	if tool == DefaultTool {
		return "install the standalone tailwindcss CLI or set assets.tool_path"
	}
	return "install it or set assets.tool_path"
}
