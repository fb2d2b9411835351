// FILE: chassis/coerce_test.go
package chassis

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceString(t *testing.T) {
	f := String("name")

	cases := []struct {
		name string
		raw  any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "hello", "hello"},
		{"Bytes", []byte("raw"), "raw"},
		{"Bool", true, "true"},
		{"Int", 42, "42"},
		{"Int64", int64(-7), "-7"},
		{"Uint", uint(9), "9"},
		{"Float", 3.5, "3.5"},
		{"JSONNumber", json.Number("1234"), "1234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Coerce(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := f.Coerce(struct{}{})
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})
}

func TestCoerceInt(t *testing.T) {
	f := Int("count")

	cases := []struct {
		name string
		raw  any
		want int64
	}{
		{"Nil", nil, 0},
		{"Int", 42, 42},
		{"Int64", int64(-3), -3},
		{"Uint", uint(7), 7},
		{"FloatTruncates", 9.99, 9},
		{"NegativeFloatTruncates", -9.99, -9},
		{"String", "8080", 8080},
		{"PaddedString", " 8080 ", 8080},
		{"NegativeString", "-12", -12},
		{"BoolTrue", true, 1},
		{"BoolFalse", false, 0},
		{"JSONNumber", json.Number("5432"), 5432},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Coerce(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("UnparsableString", func(t *testing.T) {
		_, err := f.Coerce("8080x")
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "count", verr.Field)
		assert.Contains(t, verr.Error(), "count")
		assert.Contains(t, verr.Error(), "8080x")
	})

	t.Run("HexNotAccepted", func(t *testing.T) {
		// Decimal only: a stray base prefix is a typo, not a request.
		_, err := f.Coerce("0x10")
		assert.Error(t, err)
	})
}

func TestCoerceBool(t *testing.T) {
	f := Bool("debug")

	t.Run("TokenTable", func(t *testing.T) {
		truthy := []string{"true", "1", "yes", "TRUE", "Yes", "YES", " true "}
		falsy := []string{"false", "0", "no", "FALSE", "No", "NO", " false "}

		for _, token := range truthy {
			got, err := f.Coerce(token)
			require.NoError(t, err, "token %q", token)
			assert.Equal(t, true, got, "token %q", token)
		}
		for _, token := range falsy {
			got, err := f.Coerce(token)
			require.NoError(t, err, "token %q", token)
			assert.Equal(t, false, got, "token %q", token)
		}
	})

	t.Run("NativeBool", func(t *testing.T) {
		got, err := f.Coerce(true)
		require.NoError(t, err)
		assert.Equal(t, true, got)
	})

	t.Run("NumericRaw", func(t *testing.T) {
		// A TOML `debug = 1` arrives as int64 and goes through the token table.
		got, err := f.Coerce(int64(1))
		require.NoError(t, err)
		assert.Equal(t, true, got)

		got, err = f.Coerce(int64(0))
		require.NoError(t, err)
		assert.Equal(t, false, got)
	})

	t.Run("Nil", func(t *testing.T) {
		got, err := f.Coerce(nil)
		require.NoError(t, err)
		assert.Equal(t, false, got)
	})

	t.Run("UnknownToken", func(t *testing.T) {
		for _, token := range []string{"2", "maybe", "on", "off", "truthy", ""} {
			_, err := f.Coerce(token)
			var verr *ValueError
			require.ErrorAs(t, err, &verr, "token %q", token)
			assert.Equal(t, "debug", verr.Field)
			assert.Equal(t, KindBool, verr.Kind)
		}
	})
}

func TestCoerceList(t *testing.T) {
	f := List("hosts")

	cases := []struct {
		name string
		raw  any
		want []string
	}{
		{"Nil", nil, []string{}},
		{"EmptyString", "", []string{}},
		{"Single", "a", []string{"a"}},
		{"CommaSeparated", "a,b,c", []string{"a", "b", "c"}},
		{"TrimsElements", " a , b ,c ", []string{"a", "b", "c"}},
		{"DropsEmpties", "a,,b,", []string{"a", "b"}},
		{"StringSlice", []string{" a ", "", "b"}, []string{"a", "b"}},
		{"AnySlice", []any{"a", int64(2), true}, []string{"a", "2", "true"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Coerce(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("UnsupportedType", func(t *testing.T) {
		_, err := f.Coerce(42)
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "hosts", verr.Field)
	})
}

func TestCoercePath(t *testing.T) {
	f := Path("media_root")

	t.Run("EmptyStaysEmpty", func(t *testing.T) {
		got, err := f.Coerce("")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("RelativeBecomesAbsolute", func(t *testing.T) {
		got, err := f.Coerce("media")
		require.NoError(t, err)

		cwd, werr := os.Getwd()
		require.NoError(t, werr)
		assert.Equal(t, filepath.Join(cwd, "media"), got)
	})

	t.Run("AbsoluteUnchanged", func(t *testing.T) {
		got, err := f.Coerce("/var/media")
		require.NoError(t, err)
		assert.Equal(t, "/var/media", got)
	})

	t.Run("TildeExpands", func(t *testing.T) {
		home, herr := os.UserHomeDir()
		require.NoError(t, herr)

		got, err := f.Coerce("~/media")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "media"), got)

		got, err = f.Coerce("~")
		require.NoError(t, err)
		assert.Equal(t, home, got)
	})

	t.Run("TildeUserNotExpanded", func(t *testing.T) {
		// ~otheruser stays literal and just gets rooted.
		got, err := f.Coerce("~other/media")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got.(string)))
		assert.Contains(t, got, "~other")
	})
}

func TestCoerceChoices(t *testing.T) {
	t.Run("ScalarAccepted", func(t *testing.T) {
		f := String("engine", WithChoices("postgres", "mysql", "sqlite"))
		got, err := f.Coerce("mysql")
		require.NoError(t, err)
		assert.Equal(t, "mysql", got)
	})

	t.Run("ScalarRejected", func(t *testing.T) {
		f := String("engine", WithChoices("postgres", "mysql", "sqlite"))
		_, err := f.Coerce("oracle")
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "engine", verr.Field)
		assert.Contains(t, verr.Error(), "oracle")
		assert.Contains(t, verr.Error(), "postgres, mysql, sqlite")
	})

	t.Run("ListCheckedElementwise", func(t *testing.T) {
		f := List("levels", WithChoices("debug", "info", "warn"))

		_, err := f.Coerce("debug,info")
		require.NoError(t, err)

		_, err = f.Coerce("debug,verbose")
		var verr *ValueError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Error(), "verbose")
	})
}

// TestValueErrorShape pins the diagnostic content of coercion failures.
func TestValueErrorShape(t *testing.T) {
	f := Bool("debug")
	_, err := f.Coerce("maybe")

	var verr *ValueError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "debug", verr.Field)
	assert.Equal(t, KindBool, verr.Kind)
	assert.Equal(t, "maybe", verr.Value)

	msg := verr.Error()
	assert.Contains(t, msg, "debug")
	assert.Contains(t, msg, "maybe")
	assert.Contains(t, msg, "boolean")
}
