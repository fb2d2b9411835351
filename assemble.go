// FILE: chassis/assemble.go
package chassis

// Assembly computes a final ordered component list from a baseline and its
// configured adjustments. It is a pure value: Result performs a single pass
// over immutable inputs, holds no state, and cannot fail.
type Assembly struct {
	// Baseline is the stock ordered list, pre-ordered by operational
	// constraint.
	Baseline []string

	// RequiredBy maps a feature name to the baseline entries that exist only
	// because that feature is present. Entries owned by a feature absent from
	// Active drop from the baseline.
	RequiredBy map[string][]string

	// Remove names baseline entries to exclude.
	Remove []string

	// Extend is the configured ordered sequence of additional entries. An
	// extended entry that duplicates a baseline entry keeps the extended
	// position. Extended entries are never subject to removal, implicit or
	// explicit.
	Extend []string

	// Active is the set of enabled features consulted against RequiredBy.
	Active map[string]bool
}

// Result computes the final ordered list: Extend in given order, then the
// baseline minus the union of explicit and implicit removals, de-duplicated
// keeping the first occurrence.
func (a Assembly) Result() []string {
	removed := a.removedSet()

	result := make([]string, 0, len(a.Extend)+len(a.Baseline))
	seen := make(map[string]bool, len(a.Extend)+len(a.Baseline))
	for _, name := range a.Extend {
		if seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	for _, name := range a.Baseline {
		if removed[name] || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	return result
}

// Pruned returns the baseline entries absent from the final list because of
// explicit removal or an inactive owning feature, in baseline order.
func (a Assembly) Pruned() []string {
	removed := a.removedSet()
	extended := make(map[string]bool, len(a.Extend))
	for _, name := range a.Extend {
		extended[name] = true
	}

	var out []string
	for _, name := range a.Baseline {
		if removed[name] && !extended[name] {
			out = append(out, name)
		}
	}
	return out
}

// removedSet is the union of Remove and every entry owned by an inactive
// feature.
func (a Assembly) removedSet() map[string]bool {
	removed := make(map[string]bool, len(a.Remove))
	for _, name := range a.Remove {
		removed[name] = true
	}
	for feature, owned := range a.RequiredBy {
		if a.Active[feature] {
			continue
		}
		for _, name := range owned {
			removed[name] = true
		}
	}
	return removed
}
