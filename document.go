// FILE: chassis/document.go
package chassis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is a parsed configuration document addressed by dot-separated key
// paths. The zero value behaves as an empty document: every lookup misses.
// Documents are never mutated after parsing.
type Document struct {
	root map[string]any
}

// NewDocument wraps an already-parsed nested map.
func NewDocument(root map[string]any) Document {
	return Document{root: root}
}

// LoadDocument reads and parses a configuration file, determining the format
// from the extension and falling back to content detection. A missing file
// returns ErrConfigNotFound.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, ErrConfigNotFound
		}
		return Document{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}
	if format == "" {
		return Document{}, fmt.Errorf("unable to determine config format for file '%s'", path)
	}

	doc, err := ParseDocument(data, format)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s config file '%s': %w", format, path, err)
	}
	return doc, nil
}

// ParseDocument parses raw bytes in the named format: "toml", "json", or "yaml".
func ParseDocument(data []byte, format string) (Document, error) {
	root := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &root); err != nil {
			return Document{}, err
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&root); err != nil {
			return Document{}, err
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &root); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, fmt.Errorf("unsupported config format %q", format)
	}
	return Document{root: root}, nil
}

// Lookup walks the document by splitting the path on "." and descending
// through nested tables. The second return is false when any segment is
// missing or a non-table value appears before the final segment.
func (d Document) Lookup(path string) (any, bool) {
	if d.root == nil || path == "" {
		return nil, false
	}

	current := any(d.root)
	segments := strings.Split(path, ".")
	for i, segment := range segments {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := table[segment]
		if !exists {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		current = value
	}
	return nil, false
}

// Section returns the sub-document rooted at the given path, so callers can
// scope resolution to an application-specific table. A missing or non-table
// value yields an empty document.
func (d Document) Section(path string) Document {
	value, ok := d.Lookup(path)
	if !ok {
		return Document{}
	}
	if table, ok := value.(map[string]any); ok {
		return Document{root: table}
	}
	return Document{}
}

// Flatten returns every leaf value keyed by its dot-separated path.
func (d Document) Flatten() map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", d.root)
	return out
}

func flattenInto(out map[string]any, prefix string, data map[string]any) {
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flattenInto(out, path, sub)
			continue
		}
		out[path] = value
	}
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// YAML is a superset of JSON, so check after JSON
	var yamlTest any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	var tomlTest any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	return ""
}
