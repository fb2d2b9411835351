// FILE: chassis/resolve.go
package chassis

import (
	"fmt"
	"os"
	"strings"
)

// Origin identifies which source supplied a field's raw value.
type Origin string

const (
	// OriginEnv indicates the value came from an environment variable.
	OriginEnv Origin = "env"
	// OriginDocument indicates the value came from the configuration document.
	OriginDocument Origin = "file"
	// OriginDefault indicates the field's declared default was used.
	OriginDefault Origin = "default"
)

// Sources holds the immutable inputs fields resolve against: an environment
// snapshot and a parsed configuration document. Resolution consults both
// afresh on every call and never mutates either, so resolving the same field
// twice against the same Sources yields identical results.
type Sources struct {
	// Environ is the environment snapshot, variable name to string value.
	Environ map[string]string

	// Document is the parsed configuration document.
	Document Document

	// EnvPrefix, when set, is prepended to every field's env key at lookup.
	EnvPrefix string
}

// CaptureEnviron snapshots the current process environment.
func CaptureEnviron() map[string]string {
	environ := os.Environ()
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}

// Resolve returns the field's coerced value, consulting the environment,
// then the document, then the field's default. First match wins; sources are
// never merged.
func (s Sources) Resolve(f Field) (any, error) {
	value, _, err := s.ResolveOrigin(f)
	return value, err
}

// ResolveOrigin is Resolve plus the origin that supplied the raw value.
func (s Sources) ResolveOrigin(f Field) (any, Origin, error) {
	raw, origin := s.raw(f)
	coerced, err := f.Coerce(raw)
	if err != nil {
		return nil, origin, err
	}
	return coerced, origin, nil
}

// raw picks the highest-precedence raw value for the field.
func (s Sources) raw(f Field) (any, Origin) {
	if f.envKey != "" {
		if value, ok := s.Environ[s.EnvPrefix+f.envKey]; ok {
			return value, OriginEnv
		}
	}
	if f.key != "" {
		if value, ok := s.Document.Lookup(f.key); ok {
			return value, OriginDocument
		}
	}
	return f.def, OriginDefault
}

// String resolves a string-kinded field.
func (s Sources) String(f Field) (string, error) {
	if f.kind != KindString {
		return "", fmt.Errorf("field %s is %s, not string", f.name, f.kind)
	}
	value, err := s.Resolve(f)
	if err != nil {
		return "", err
	}
	return value.(string), nil
}

// Int resolves an integer-kinded field.
func (s Sources) Int(f Field) (int64, error) {
	if f.kind != KindInt {
		return 0, fmt.Errorf("field %s is %s, not integer", f.name, f.kind)
	}
	value, err := s.Resolve(f)
	if err != nil {
		return 0, err
	}
	return value.(int64), nil
}

// Bool resolves a boolean-kinded field.
func (s Sources) Bool(f Field) (bool, error) {
	if f.kind != KindBool {
		return false, fmt.Errorf("field %s is %s, not boolean", f.name, f.kind)
	}
	value, err := s.Resolve(f)
	if err != nil {
		return false, err
	}
	return value.(bool), nil
}

// List resolves a list-kinded field.
func (s Sources) List(f Field) ([]string, error) {
	if f.kind != KindList {
		return nil, fmt.Errorf("field %s is %s, not list", f.name, f.kind)
	}
	value, err := s.Resolve(f)
	if err != nil {
		return nil, err
	}
	return value.([]string), nil
}

// Path resolves a path-kinded field.
func (s Sources) Path(f Field) (string, error) {
	if f.kind != KindPath {
		return "", fmt.Errorf("field %s is %s, not path", f.name, f.kind)
	}
	value, err := s.Resolve(f)
	if err != nil {
		return "", err
	}
	return value.(string), nil
}
