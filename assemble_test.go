// FILE: chassis/assemble_test.go
package chassis

import (
	"sort"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// TestAssemblyResult tests the assembled list for exact content and order.
func TestAssemblyResult(t *testing.T) {
	t.Run("BaselineUntouched", func(t *testing.T) {
		a := Assembly{Baseline: []string{"alpha", "beta", "gamma"}}
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, a.Result())
	})

	t.Run("ExplicitRemove", func(t *testing.T) {
		a := Assembly{
			Baseline: []string{"alpha", "beta", "gamma"},
			Remove:   []string{"beta"},
		}
		assert.Equal(t, []string{"alpha", "gamma"}, a.Result())
	})

	t.Run("ExtendOverlappingBaseline", func(t *testing.T) {
		// An entry in both lists keeps the extended position.
		a := Assembly{
			Baseline: []string{"alpha", "beta"},
			Extend:   []string{"beta", "delta"},
		}
		assert.Equal(t, []string{"beta", "delta", "alpha"}, a.Result())
	})

	t.Run("RemoveUnknownName", func(t *testing.T) {
		a := Assembly{
			Baseline: []string{"alpha"},
			Remove:   []string{"nonexistent"},
		}
		assert.Equal(t, []string{"alpha"}, a.Result())
	})

	t.Run("InactiveFeaturePrunes", func(t *testing.T) {
		a := Assembly{
			Baseline:   []string{"admin", "auth", "sessions", "static"},
			RequiredBy: map[string][]string{"auth": {"auth", "sessions"}},
			Active:     map[string]bool{"auth": false},
		}
		assert.Equal(t, []string{"admin", "static"}, a.Result())
	})

	t.Run("ActiveFeatureKeeps", func(t *testing.T) {
		a := Assembly{
			Baseline:   []string{"admin", "auth", "sessions"},
			RequiredBy: map[string][]string{"auth": {"auth", "sessions"}},
			Active:     map[string]bool{"auth": true},
		}
		assert.Equal(t, []string{"admin", "auth", "sessions"}, a.Result())
	})

	t.Run("DuplicateExtendEntries", func(t *testing.T) {
		a := Assembly{
			Baseline: []string{"alpha"},
			Extend:   []string{"delta", "delta", "alpha"},
		}
		assert.Equal(t, []string{"delta", "alpha"}, a.Result())
	})

	t.Run("EmptyEverything", func(t *testing.T) {
		assert.Empty(t, Assembly{}.Result())
	})
}

// TestAssembleExtendNotPruned pins the asymmetry: extended entries survive
// both explicit removal and an inactive owning feature.
func TestAssembleExtendNotPruned(t *testing.T) {
	a := Assembly{
		Baseline:   []string{"alpha", "beta", "gamma"},
		RequiredBy: map[string][]string{"feat": {"gamma"}},
		Remove:     []string{"beta"},
		Extend:     []string{"beta", "gamma"},
		Active:     map[string]bool{"feat": false},
	}

	assert.Equal(t, []string{"beta", "gamma", "alpha"}, a.Result())
	assert.Empty(t, a.Pruned(), "removed entries that were extended back do not count as pruned")
}

func TestAssemblyPruned(t *testing.T) {
	a := Assembly{
		Baseline:   []string{"admin", "auth", "sessions", "static"},
		RequiredBy: map[string][]string{"auth": {"auth", "sessions"}},
		Remove:     []string{"static"},
		Active:     map[string]bool{},
	}

	// Baseline order, both removal causes folded together.
	assert.Equal(t, []string{"auth", "sessions", "static"}, a.Pruned())
}

// genComponentName yields short lowercase identifiers with deliberate
// collisions so generated baselines and extensions overlap often.
func genComponentName() gopter.Gen {
	return gen.OneConstOf(
		"admin", "auth", "sessions", "messages", "static", "cache",
		"csrf", "gzip", "locale", "security",
	)
}

func genComponentList(maxLen int) gopter.Gen {
	return gen.SliceOf(genComponentName()).Map(func(names []string) []string {
		if len(names) > maxLen {
			return names[:maxLen]
		}
		return names
	})
}

// TestAssemblyProperties checks the structural guarantees of Result over
// randomized inputs.
func TestAssemblyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("result contains no duplicates", prop.ForAll(
		func(baseline, remove, extend []string) bool {
			a := Assembly{Baseline: baseline, Remove: remove, Extend: extend}
			result := a.Result()

			seen := make(map[string]bool, len(result))
			for _, name := range result {
				if seen[name] {
					t.Logf("duplicate %q in %v", name, result)
					return false
				}
				seen[name] = true
			}
			return true
		},
		genComponentList(8),
		genComponentList(4),
		genComponentList(4),
	))

	properties.Property("surviving baseline entries keep relative order", prop.ForAll(
		func(baseline, remove, extend []string) bool {
			a := Assembly{Baseline: baseline, Remove: remove, Extend: extend}
			result := a.Result()

			positions := make(map[string]int, len(result))
			for i, name := range result {
				positions[name] = i
			}

			extended := toSet(extend)
			removed := toSet(remove)
			last := -1
			for _, name := range baseline {
				if removed[name] || extended[name] {
					continue
				}
				pos, ok := positions[name]
				if !ok {
					t.Logf("surviving entry %q missing from %v", name, result)
					return false
				}
				if pos < last {
					t.Logf("order violated at %q in %v", name, result)
					return false
				}
				last = pos
			}
			return true
		},
		genComponentList(8),
		genComponentList(4),
		genComponentList(4),
	))

	properties.Property("extended entries always survive at extend position", prop.ForAll(
		func(baseline, remove, extend []string) bool {
			a := Assembly{Baseline: baseline, Remove: remove, Extend: extend}
			result := a.Result()

			want := dedupe(extend)
			if len(result) < len(want) {
				t.Logf("result %v shorter than deduped extend %v", result, want)
				return false
			}
			for i, name := range want {
				if result[i] != name {
					t.Logf("extend prefix mismatch at %d: %v vs %v", i, result, want)
					return false
				}
			}
			return true
		},
		genComponentList(8),
		genComponentList(4),
		genComponentList(4),
	))

	properties.Property("result is a subset of baseline and extend", prop.ForAll(
		func(baseline, remove, extend []string) bool {
			a := Assembly{Baseline: baseline, Remove: remove, Extend: extend}
			known := toSet(baseline)
			for _, name := range extend {
				known[name] = true
			}

			for _, name := range a.Result() {
				if !known[name] {
					t.Logf("invented entry %q (baseline %v, extend %v)", name, baseline, extend)
					return false
				}
			}
			return true
		},
		genComponentList(8),
		genComponentList(4),
		genComponentList(4),
	))

	properties.TestingRun(t)
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// TestStockBaselines sanity-checks the shipped lists the assembler consumes.
func TestStockBaselines(t *testing.T) {
	t.Run("RequirementsReferenceBaseline", func(t *testing.T) {
		cases := []struct {
			name       string
			baseline   []string
			requiredBy map[string][]string
		}{
			{"Apps", BaselineApps(), AppRequirements()},
			{"Middleware", BaselineMiddleware(), MiddlewareRequirements()},
			{"ContextProcessors", BaselineContextProcessors(), ContextProcessorRequirements()},
			{"Finders", BaselineFinders(), FinderRequirements()},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				base := toSet(tc.baseline)
				for feature, owned := range tc.requiredBy {
					for _, name := range owned {
						assert.True(t, base[name],
							"feature %s claims %s which is not in the baseline", feature, name)
					}
				}
			})
		}
	})

	t.Run("BaselinesHaveNoDuplicates", func(t *testing.T) {
		for _, baseline := range [][]string{
			BaselineApps(), BaselineMiddleware(), BaselineContextProcessors(), BaselineFinders(),
		} {
			sorted := append([]string(nil), baseline...)
			sort.Strings(sorted)
			for i := 1; i < len(sorted); i++ {
				assert.NotEqual(t, sorted[i-1], sorted[i], "duplicate in %s", strings.Join(baseline, ","))
			}
		}
	})

	t.Run("ActiveFeatures", func(t *testing.T) {
		active := ActiveFeatures(true, false, true)
		assert.True(t, active[FeatureDebug])
		assert.False(t, active[FeatureAuth])
		assert.True(t, active[FeatureAdmin])
	})
}
