// FILE: chassis/registry.go
package chassis

import (
	"fmt"
	"sort"
	"sync"
)

// Group is a named collection of fields owned by one settings area. Groups
// are plain values declared once and handed to a Registry; they carry no
// registration side effects of their own.
type Group struct {
	name   string
	fields []Field
}

// NewGroup builds a group from its fields. Field names must be unique within
// the group; a duplicate is a declaration bug and panics.
func NewGroup(name string, fields ...Field) Group {
	if name == "" {
		panic("chassis: group name must not be empty")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.name] {
			panic(fmt.Sprintf("chassis: duplicate field %s in group %s", f.name, name))
		}
		seen[f.name] = true
	}
	return Group{name: name, fields: fields}
}

// Name returns the group name.
func (g Group) Name() string { return g.name }

// Fields returns the group's fields in declaration order.
func (g Group) Fields() []Field {
	out := make([]Field, len(g.fields))
	copy(out, g.fields)
	return out
}

// Field returns the named field.
func (g Group) Field(name string) (Field, bool) {
	for _, f := range g.fields {
		if f.name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Registry indexes groups by name for later enumeration. It is built
// explicitly at startup by walking a fixed list of group definitions;
// registration is append-only, a name can never be replaced.
type Registry struct {
	mu      sync.RWMutex
	groups  map[string]Group
	envKeys map[string]string // env key -> "group.field", collision guard
}

// NewRegistry builds a registry from the given groups.
func NewRegistry(groups ...Group) (*Registry, error) {
	r := &Registry{
		groups:  make(map[string]Group, len(groups)),
		envKeys: make(map[string]string),
	}
	for _, g := range groups {
		if err := r.Add(g); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a group. It rejects a duplicate group name and any field
// whose env key is already claimed by a previously registered field.
func (r *Registry) Add(g Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[g.name]; exists {
		return fmt.Errorf("group already registered: %s", g.name)
	}
	for _, f := range g.fields {
		if f.envKey == "" {
			continue
		}
		if owner, claimed := r.envKeys[f.envKey]; claimed {
			return fmt.Errorf("env key %s for %s.%s already claimed by %s", f.envKey, g.name, f.name, owner)
		}
	}

	r.groups[g.name] = g
	for _, f := range g.fields {
		if f.envKey != "" {
			r.envKeys[f.envKey] = g.name + "." + f.name
		}
	}
	return nil
}

// Group returns the named group.
func (r *Registry) Group(name string) (Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[name]
	return g, ok
}

// Groups returns all registered groups sorted by name.
func (r *Registry) Groups() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Group, 0, len(names))
	for _, name := range names {
		out = append(out, r.groups[name])
	}
	return out
}

// Len returns the number of registered groups.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
