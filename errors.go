// FILE: chassis/errors.go
package chassis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigNotFound indicates that no configuration document could be located.
// It is not fatal: resolution proceeds with environment variables and defaults.
var ErrConfigNotFound = errors.New("config file not found")

// ValueError reports a raw value that could not be coerced to its field's kind,
// or a coerced value outside the field's declared choices. It is always fatal;
// resolution never substitutes a fallback for a malformed value.
type ValueError struct {
	Field  string // field name as declared
	Value  any    // offending raw value
	Kind   Kind   // kind the value was coerced toward
	Reason string
}

// Error implements the error interface.
func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q for field %s: %s", e.Kind, fmt.Sprint(e.Value), e.Field, e.Reason)
}

// UnsupportedOptionError reports a resolved choice value that no consumer
// branch recognizes. Known names the values a consumer can handle.
type UnsupportedOptionError struct {
	Setting string
	Value   string
	Known   []string
}

// Error implements the error interface.
func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("unsupported %s %q (known: %s)", e.Setting, e.Value, strings.Join(e.Known, ", "))
}

// newValueError builds a ValueError for a field and the raw value that failed.
func newValueError(f Field, raw any, reason string) *ValueError {
	return &ValueError{Field: f.name, Value: raw, Kind: f.kind, Reason: reason}
}
