package registry

import (
	"encoding/json"
	"fmt"
	"sync"
)

// param binds one named field to a pointer owned by the registering code.
// Exactly one of f/b is set.
type param struct {
	name     string
	f        *float64
	min, max float64
	b        *bool
}

// Group is a named set of parameters sharing one lock. Builder methods are
// meant for construction at startup and are not safe to call after the group
// is in use.
type Group struct {
	name   string
	mu     sync.RWMutex
	params []*param
	byName map[string]*param
}

// NewGroup creates an empty group.
func NewGroup(name string) *Group {
	return &Group{name: name, byName: make(map[string]*param)}
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// Float binds a bounded float parameter. Writes are clamped to [min, max].
func (g *Group) Float(name string, ptr *float64, min, max float64) *Group {
	g.add(&param{name: name, f: ptr, min: min, max: max})
	return g
}

// Bool binds a boolean parameter.
func (g *Group) Bool(name string, ptr *bool) *Group {
	g.add(&param{name: name, b: ptr})
	return g
}

func (g *Group) add(p *param) {
	if _, ok := g.byName[p.name]; ok {
		panic(fmt.Sprintf("registry: duplicate parameter %q in group %q", p.name, g.name))
	}
	g.params = append(g.params, p)
	g.byName[p.name] = p
}

// Read runs fn while holding the group read lock. The tick driver uses this
// to copy the bound config struct consistently.
func (g *Group) Read(fn func()) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn()
}

// Set writes one parameter. Float values are clamped to the parameter bounds;
// json.Number and integer values are accepted for floats.
func (g *Group) Set(name string, value any) error {
	p, ok := g.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q in group %q", ErrUnknownParam, name, g.name)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return p.set(value)
}

// Apply writes a set of parameters under one lock acquisition. The first
// failure aborts the remaining writes; earlier writes in the map stick, which
// matches per-field delivery from a remote config service.
func (g *Group) Apply(values map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for name, value := range values {
		p, ok := g.byName[name]
		if !ok {
			return fmt.Errorf("%w: %q in group %q", ErrUnknownParam, name, g.name)
		}
		if err := p.set(value); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns the current parameter values.
func (g *Group) Snapshot() map[string]any {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]any, len(g.params))
	for _, p := range g.params {
		if p.f != nil {
			out[p.name] = *p.f
		} else {
			out[p.name] = *p.b
		}
	}
	return out
}

func (p *param) set(value any) error {
	if p.b != nil {
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("registry: parameter %q wants bool, got %T", p.name, value)
		}
		*p.b = v
		return nil
	}

	v, err := toFloat(value)
	if err != nil {
		return fmt.Errorf("registry: parameter %q: %w", p.name, err)
	}
	if v < p.min {
		v = p.min
	}
	if v > p.max {
		v = p.max
	}
	*p.f = v
	return nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("wants number, got %T", value)
	}
}
