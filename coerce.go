// FILE: chassis/coerce.go
package chassis

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Coerce converts a raw source value to the field's kind and validates the
// result against the field's choices. A nil raw value yields the kind's empty
// value. Failures return a *ValueError naming the field and the raw value.
func (f Field) Coerce(raw any) (any, error) {
	var (
		coerced any
		err     error
	)
	switch f.kind {
	case KindString:
		coerced, err = coerceString(raw)
	case KindInt:
		coerced, err = coerceInt(raw)
	case KindBool:
		coerced, err = coerceBool(raw)
	case KindList:
		coerced, err = coerceList(raw)
	case KindPath:
		coerced, err = coercePath(raw)
	default:
		err = fmt.Errorf("unhandled kind %s", f.kind)
	}
	if err != nil {
		return nil, newValueError(f, raw, err.Error())
	}
	if err := f.checkChoices(coerced); err != nil {
		return nil, err
	}
	return coerced, nil
}

// checkChoices validates a coerced value against the field's allowed set.
// List values are checked element by element.
func (f Field) checkChoices(coerced any) error {
	if len(f.choices) == 0 {
		return nil
	}
	allowed := strings.Join(f.choices, ", ")
	if items, ok := coerced.([]string); ok {
		for _, item := range items {
			if !slices.Contains(f.choices, item) {
				return newValueError(f, item, "not one of "+allowed)
			}
		}
		return nil
	}
	s, err := coerceString(coerced)
	if err != nil {
		return newValueError(f, coerced, err.Error())
	}
	if !slices.Contains(f.choices, s) {
		return newValueError(f, coerced, "not one of "+allowed)
	}
	return nil
}

// coerceString converts common scalar types to their string form.
func coerceString(raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	if s, ok := raw.(string); ok {
		return s, nil
	}

	switch v := raw.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(raw).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(raw).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(raw).Float(), 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string", raw)
	}
}

// coerceInt converts numeric types, parsable decimal strings, and booleans
// to int64. Floats truncate toward zero.
func coerceInt(raw any) (int64, error) {
	if raw == nil {
		return int64(0), nil
	}

	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		maxInt64 := int64(^uint64(0) >> 1)
		if u > uint64(maxInt64) {
			return 0, fmt.Errorf("unsigned integer %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(v.Float()), nil
	case reflect.String:
		s := strings.TrimSpace(v.String())
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", s)
		}
		return i, nil
	case reflect.Bool:
		if v.Bool() {
			return int64(1), nil
		}
		return int64(0), nil
	}

	return 0, fmt.Errorf("cannot convert type %T to integer", raw)
}

// coerceBool converts native booleans directly and everything else through
// its string form and the boolean token table.
func coerceBool(raw any) (bool, error) {
	if raw == nil {
		return false, nil
	}
	if b, ok := raw.(bool); ok {
		return b, nil
	}

	s, err := coerceString(raw)
	if err != nil {
		return false, fmt.Errorf("cannot convert type %T to boolean", raw)
	}
	return parseBoolToken(s)
}

// parseBoolToken maps the accepted boolean spellings to their value.
// Comparison is case-insensitive.
func parseBoolToken(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized boolean %q (want true/1/yes or false/0/no)", s)
	}
}

// coerceList converts a raw value to an ordered list of strings. Strings
// split on commas; slice elements stringify individually. Every element is
// trimmed and empties are dropped.
func coerceList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitList(v), nil
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := coerceString(item)
			if err != nil {
				return nil, fmt.Errorf("list element: %w", err)
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert type %T to list", raw)
	}
}

// splitList splits a comma-separated string into trimmed, non-empty elements.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// coercePath converts a raw value to an absolute filesystem path, expanding
// a leading ~ to the current user's home directory.
func coercePath(raw any) (string, error) {
	s, err := coerceString(raw)
	if err != nil {
		return "", fmt.Errorf("cannot convert type %T to path", raw)
	}
	if s == "" {
		return "", nil
	}
	expanded, err := expandHome(s)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	return abs, nil
}

// expandHome replaces a leading ~ with the current user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
