// FILE: chassis/envfile.go
package chassis

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvExample renders a documented example environment file: every registered
// field with an env key, grouped by owning group in alphabetical order, with
// its expected value shape and default. Output is deterministic, so the
// artifact can live under version control.
func EnvExample(r *Registry, prefix string) string {
	var b strings.Builder
	b.WriteString("# Example environment configuration.\n")
	b.WriteString("# Generated from the registered settings groups; values shown are defaults.\n")

	for _, g := range r.Groups() {
		var fields []Field
		for _, f := range g.Fields() {
			if f.envKey != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) == 0 {
			continue
		}

		b.WriteString("\n# ----- " + g.Name() + " -----\n")
		for _, f := range fields {
			b.WriteString("\n")
			if f.doc != "" {
				b.WriteString("# " + f.doc + "\n")
			}
			hint := shapeHint(f)
			def := renderDefault(f)
			if def == "" {
				b.WriteString("# " + hint + "\n")
			} else {
				b.WriteString("# " + hint + ", default: " + def + "\n")
			}
			b.WriteString(prefix + f.envKey + "=" + def + "\n")
		}
	}
	return b.String()
}

// WriteEnvExample renders EnvExample and writes it atomically.
func WriteEnvExample(r *Registry, prefix, path string) error {
	return atomicWriteFile(path, []byte(EnvExample(r, prefix)))
}

// TOMLExample renders a starter configuration document containing every
// registered field that declares a document key, set to its default.
func TOMLExample(r *Registry) (string, error) {
	nested := make(map[string]any)
	for _, g := range r.Groups() {
		for _, f := range g.Fields() {
			if f.key == "" {
				continue
			}
			setNestedValue(nested, f.key, exampleValue(f))
		}
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(nested); err != nil {
		return "", fmt.Errorf("failed to marshal example config to TOML: %w", err)
	}
	return buf.String(), nil
}

// WriteTOMLExample renders TOMLExample and writes it atomically.
func WriteTOMLExample(r *Registry, path string) error {
	rendered, err := TOMLExample(r)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, []byte(rendered))
}

// shapeHint describes the value shape a field expects: enumerated choices
// when declared, otherwise a type-based example.
func shapeHint(f Field) string {
	if len(f.choices) > 0 {
		return "one of: " + strings.Join(f.choices, ", ")
	}
	switch f.kind {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean (true/1/yes or false/0/no)"
	case KindList:
		return "comma-separated list"
	case KindPath:
		return "filesystem path, leading ~ expands"
	default:
		return f.kind.String()
	}
}

// renderDefault renders a field's raw default in its env spelling. Paths
// keep their raw form so the artifact stays machine-independent.
func renderDefault(f Field) string {
	if f.def == nil {
		return ""
	}
	if items, ok := f.def.([]string); ok {
		return strings.Join(items, ",")
	}
	s, err := coerceString(f.def)
	if err != nil {
		return fmt.Sprintf("%v", f.def)
	}
	return s
}

// exampleValue renders a field's default in its natural document type.
func exampleValue(f Field) any {
	switch f.kind {
	case KindBool:
		v, err := coerceBool(f.def)
		if err != nil {
			return false
		}
		return v
	case KindInt:
		v, err := coerceInt(f.def)
		if err != nil {
			return int64(0)
		}
		return v
	case KindList:
		v, err := coerceList(f.def)
		if err != nil {
			return []string{}
		}
		return v
	default:
		// Strings and paths keep their raw spelling
		v, err := coerceString(f.def)
		if err != nil {
			return ""
		}
		return v
	}
}

// setNestedValue writes a value into a nested map, creating intermediate
// tables as needed.
func setNestedValue(data map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	current := data
	for i, segment := range segments {
		if i == len(segments)-1 {
			current[segment] = value
			return
		}
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
}

// atomicWriteFile performs an atomic file write via a temp file and rename.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
