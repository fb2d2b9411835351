// FILE: chassis/field.go
package chassis

import (
	"fmt"
	"strings"
)

// Kind identifies the semantic type a field's raw value is coerced to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
	KindPath
)

// String returns the kind name used in documentation and error messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindPath:
		return "path"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes a single configuration value: where it may come from and
// what it coerces to. Fields are immutable after construction; reading one
// never caches, so every resolution consults the sources afresh.
type Field struct {
	name    string
	kind    Kind
	envKey  string   // environment variable consulted first, empty to skip
	key     string   // dot-separated document path, empty to skip
	def     any      // fallback raw value, nil means the kind's empty value
	choices []string // allowed coerced values, empty means unrestricted
	doc     string   // one-line description for generated artifacts
}

// FieldOption customizes a field at construction time.
type FieldOption func(*Field)

// WithEnv sets the environment variable consulted before any other source.
func WithEnv(key string) FieldOption {
	return func(f *Field) { f.envKey = key }
}

// WithKey sets the dot-separated path into the configuration document.
func WithKey(path string) FieldOption {
	return func(f *Field) { f.key = path }
}

// WithDefault sets the fallback value used when neither the environment nor
// the document provides one. The default passes through the same coercion as
// any other raw value.
func WithDefault(v any) FieldOption {
	return func(f *Field) { f.def = v }
}

// WithChoices restricts the coerced value to the given set.
func WithChoices(values ...string) FieldOption {
	return func(f *Field) { f.choices = values }
}

// WithDoc attaches a one-line description, emitted into generated env files.
func WithDoc(text string) FieldOption {
	return func(f *Field) { f.doc = text }
}

// String declares a string-kinded field.
func String(name string, opts ...FieldOption) Field {
	return newField(name, KindString, opts)
}

// Int declares an integer-kinded field.
func Int(name string, opts ...FieldOption) Field {
	return newField(name, KindInt, opts)
}

// Bool declares a boolean-kinded field.
func Bool(name string, opts ...FieldOption) Field {
	return newField(name, KindBool, opts)
}

// List declares a field holding an ordered list of strings. String raw values
// split on commas; each element is trimmed and empties are dropped.
func List(name string, opts ...FieldOption) Field {
	return newField(name, KindList, opts)
}

// Path declares a filesystem-path field. A leading ~ expands to the home
// directory and the result is made absolute.
func Path(name string, opts ...FieldOption) Field {
	return newField(name, KindPath, opts)
}

func newField(name string, kind Kind, opts []FieldOption) Field {
	if name == "" {
		panic("chassis: field name must not be empty")
	}
	f := Field{name: name, kind: kind}
	for _, opt := range opts {
		opt(&f)
	}
	if f.key != "" && !isValidKeyPath(f.key) {
		panic(fmt.Sprintf("chassis: invalid document key %q for field %s", f.key, name))
	}
	return f
}

// Name returns the field name as declared.
func (f Field) Name() string { return f.name }

// Kind returns the field's semantic kind.
func (f Field) Kind() Kind { return f.kind }

// EnvKey returns the environment variable name, or "" when none is declared.
func (f Field) EnvKey() string { return f.envKey }

// Key returns the document path, or "" when none is declared.
func (f Field) Key() string { return f.key }

// Default returns the raw default value, which may be nil.
func (f Field) Default() any { return f.def }

// Choices returns a copy of the allowed values, empty when unrestricted.
func (f Field) Choices() []string {
	if len(f.choices) == 0 {
		return nil
	}
	out := make([]string, len(f.choices))
	copy(out, f.choices)
	return out
}

// Doc returns the field's one-line description.
func (f Field) Doc() string { return f.doc }

// isValidKeyPath reports whether a dot-separated document path is well formed:
// non-empty segments of letters, digits, underscores, and hyphens.
func isValidKeyPath(path string) bool {
	if path == "" {
		return false
	}
	for _, segment := range strings.Split(path, ".") {
		if !isValidKeySegment(segment) {
			return false
		}
	}
	return true
}

func isValidKeySegment(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
