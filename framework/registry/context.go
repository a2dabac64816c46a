package registry

import (
	"github.com/km-arc/go-injector/framework/target"
)

// Entry is a target seen from a context. A nil Where is the global context.
type Entry struct {
	Target target.Target
	Where  target.Target
}

// Global returns the context-free entry for t.
func Global(t target.Target) Entry { return Entry{Target: t} }

// Local returns the entry for t as seen from where.
func Local(t, where target.Target) Entry { return Entry{Target: t, Where: where} }

// Visibility tells whether a configured value comes from a context-specific entry.
type Visibility int

const (
	VisibilityLocal Visibility = iota
	VisibilityGlobal
)

func (v Visibility) String() string {
	if v == VisibilityLocal {
		return "local"
	}
	return "global"
}

// Default produces the value of a facet when nothing is configured for an entry.
type Default[V any] interface {
	Value(e Entry) V
}

// DefaultFunc adapts a function to Default.
type DefaultFunc[V any] func(e Entry) V

func (f DefaultFunc[V]) Value(e Entry) V { return f(e) }

// ContextConfig maps targets to values, globally and per context. A context
// specific value shadows the global one; the global one shadows the default.
type ContextConfig[V any] struct {
	def    Default[V]
	global map[target.Target]V
	local  map[target.Target]map[target.Target]V
}

// NewContextConfig creates an empty store falling back to def.
func NewContextConfig[V any](def Default[V]) *ContextConfig[V] {
	return &ContextConfig[V]{
		def:    def,
		global: make(map[target.Target]V),
		local:  make(map[target.Target]map[target.Target]V),
	}
}

// Set stores v for e, in the context of e.Where or globally.
func (c *ContextConfig[V]) Set(e Entry, v V) {
	if e.Where == nil {
		c.global[e.Target] = v
		return
	}
	m, ok := c.local[e.Where]
	if !ok {
		m = make(map[target.Target]V)
		c.local[e.Where] = m
	}
	m[e.Target] = v
}

// IsLocal reports whether a value is configured specifically for e.Where.
func (c *ContextConfig[V]) IsLocal(e Entry) bool {
	if e.Where == nil {
		return false
	}
	_, ok := c.local[e.Where][e.Target]
	return ok
}

// Visibility is VisibilityLocal when IsLocal(e), VisibilityGlobal otherwise.
func (c *ContextConfig[V]) Visibility(e Entry) Visibility {
	if c.IsLocal(e) {
		return VisibilityLocal
	}
	return VisibilityGlobal
}

// Lookup returns the local value, else the global one; ok is false when neither exists.
func (c *ContextConfig[V]) Lookup(e Entry) (v V, ok bool) {
	if e.Where != nil {
		if v, ok = c.local[e.Where][e.Target]; ok {
			return v, true
		}
	}
	v, ok = c.global[e.Target]
	return v, ok
}

// Exact returns the value stored at exactly e, without falling back.
func (c *ContextConfig[V]) Exact(e Entry) (v V, ok bool) {
	if e.Where == nil {
		v, ok = c.global[e.Target]
		return v, ok
	}
	v, ok = c.local[e.Where][e.Target]
	return v, ok
}

// Get is Lookup with the default applied.
func (c *ContextConfig[V]) Get(e Entry) V {
	if v, ok := c.Lookup(e); ok {
		return v
	}
	return c.def.Value(e)
}

// Delete removes the value stored at exactly e.
func (c *ContextConfig[V]) Delete(e Entry) {
	if e.Where == nil {
		delete(c.global, e.Target)
		return
	}
	if m, ok := c.local[e.Where]; ok {
		delete(m, e.Target)
		if len(m) == 0 {
			delete(c.local, e.Where)
		}
	}
}
