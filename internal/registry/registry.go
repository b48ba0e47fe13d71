// Package registry provides named groups of typed, range-bounded parameters
// that external writers (HTTP, MQTT) may update between ticks. A group is
// registered once at startup; the owning code keeps pointers into its own
// config struct and snapshots values under the group lock each tick.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownGroup is returned when addressing a group that was never registered.
var ErrUnknownGroup = errors.New("registry: unknown group")

// ErrUnknownParam is returned when addressing a parameter not in the group.
var ErrUnknownParam = errors.New("registry: unknown parameter")

// Registry holds all registered parameter groups.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]*Group
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// Register adds a group. Registering the same group name twice is an error;
// this is the only failure mode of initialization.
func (r *Registry) Register(g *Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[g.name]; ok {
		return fmt.Errorf("registry: group %q already registered", g.name)
	}
	r.groups[g.name] = g
	return nil
}

// Group returns the named group.
func (r *Registry) Group(name string) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[name]
	return g, ok
}

// Names returns the registered group names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.groups))
	for name := range r.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply writes a set of values into the named group.
func (r *Registry) Apply(group string, values map[string]any) error {
	g, ok := r.Group(group)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	return g.Apply(values)
}

// Snapshot returns the current values of the named group.
func (r *Registry) Snapshot(group string) (map[string]any, error) {
	g, ok := r.Group(group)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	return g.Snapshot(), nil
}
