// FILE: chassis/scan.go
package chassis

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the configuration subtree at basePath into the target struct
// pointer, applying the same precedence as field resolution: an environment
// variable overrides a document value, which overrides whatever the struct
// already holds as a default. Env names derive from each leaf's dot path
// behind the Sources prefix, so "cache.ttl" reads CACHE_TTL. Struct fields
// map through the "toml" tag.
func (s Sources) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("target of Scan must point to a struct, got %T", target)
	}

	basePath = strings.TrimSuffix(basePath, ".")

	// Collect the leaf paths the target can accept
	var leaves []string
	collectLeafPaths(elem.Type(), "", &leaves)

	// Overlay sources into a nested map, document first, env on top
	data := make(map[string]any)
	for _, leaf := range leaves {
		full := leaf
		if basePath != "" {
			full = basePath + "." + leaf
		}
		if value, ok := s.Document.Lookup(full); ok {
			setNestedValue(data, leaf, value)
		}
		if envValue, ok := s.Environ[s.EnvPrefix+EnvName(full)]; ok {
			setNestedValue(data, leaf, envValue)
		}
	}

	decoderConfig := &mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml", // Match the document format's tag
		WeaklyTypedInput: true,   // Allow conversions (e.g., string to int)
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("failed to scan section %q into %T: %w", basePath, target, err)
	}
	return nil
}

// EnvName converts a dot path to its conventional environment variable name:
// dots become underscores and the result is uppercased.
func EnvName(path string) string {
	return strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}

// collectLeafPaths walks a struct type and appends the dot path of every
// scannable leaf field, honoring "toml" tags. Nested structs recurse with
// their key as a path segment.
func collectLeafPaths(t reflect.Type, prefix string, out *[]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("toml")
		if tag == "-" {
			continue
		}
		key := strings.ToLower(field.Name)
		if tag != "" {
			if name := strings.Split(tag, ",")[0]; name != "" {
				key = name
			}
		}

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		fieldType := field.Type
		if fieldType.Kind() == reflect.Ptr {
			fieldType = fieldType.Elem()
		}
		// time.Duration is an integer kind, so it lands in the leaf branch
		if fieldType.Kind() == reflect.Struct {
			collectLeafPaths(fieldType, path, out)
			continue
		}

		*out = append(*out, path)
	}
}
