package registry

import (
	"reflect"

	"github.com/km-arc/go-injector/framework/target"
)

// ── Bindings ──────────────────────────────────────────────────────────────────

// Bindings maps a target to the target that replaces it. Unbound targets map to
// themselves.
type Bindings struct {
	config *ContextConfig[target.Target]
}

func NewBindings() *Bindings {
	return &Bindings{config: NewContextConfig[target.Target](DefaultFunc[target.Target](func(e Entry) target.Target {
		return e.Target
	}))}
}

func (b *Bindings) Set(e Entry, to target.Target) { b.config.Set(e, to) }
func (b *Bindings) Get(e Entry) target.Target     { return b.config.Get(e) }
func (b *Bindings) Delete(e Entry)                { b.config.Delete(e) }

// ── Lifetimes ─────────────────────────────────────────────────────────────────

// Lifetimes holds lifetime overrides on top of the container default.
type Lifetimes struct {
	config *ContextConfig[Lifetime]
	def    Lifetime
}

// NewLifetimes creates the facet; Inherit as the default means Transient.
func NewLifetimes(def Lifetime) *Lifetimes {
	if def == Inherit {
		def = Transient
	}
	l := &Lifetimes{def: def}
	l.config = NewContextConfig[Lifetime](DefaultFunc[Lifetime](func(Entry) Lifetime { return l.def }))
	return l
}

// Set overrides the lifetime for e. Setting Inherit drops the override.
func (l *Lifetimes) Set(e Entry, lifetime Lifetime) {
	l.config.Delete(e)
	if lifetime != Inherit {
		l.config.Set(e, lifetime)
	}
}

func (l *Lifetimes) Get(e Entry) Lifetime          { return l.config.Get(e) }
func (l *Lifetimes) IsSingleton(e Entry) bool      { return l.config.Get(e) == Singleton }
func (l *Lifetimes) Visibility(e Entry) Visibility { return l.config.Visibility(e) }
func (l *Lifetimes) Delete(e Entry)                { l.config.Delete(e) }
func (l *Lifetimes) Default() Lifetime             { return l.def }

// ── Instances ─────────────────────────────────────────────────────────────────

// Instances holds pre-set values and singletons once they are built.
type Instances struct {
	config *ContextConfig[reflect.Value]
}

func NewInstances() *Instances {
	return &Instances{config: NewContextConfig[reflect.Value](DefaultFunc[reflect.Value](func(Entry) reflect.Value {
		return reflect.Value{}
	}))}
}

func (i *Instances) Set(e Entry, v reflect.Value)         { i.config.Set(e, v) }
func (i *Instances) Lookup(e Entry) (reflect.Value, bool) { return i.config.Lookup(e) }
func (i *Instances) Get(e Entry) reflect.Value            { return i.config.Get(e) }
func (i *Instances) Delete(e Entry)                       { i.config.Delete(e) }

func (i *Instances) Has(e Entry) bool {
	_, ok := i.config.Lookup(e)
	return ok
}

// ── Arguments ─────────────────────────────────────────────────────────────────

// Arg is a configured constructor argument: a literal value, or a factory target
// whose result is resolved through the container.
type Arg struct {
	value   reflect.Value
	factory target.Target
}

// ValueArg is an argument supplied as a literal. An invalid v means the zero value.
func ValueArg(v reflect.Value) Arg { return Arg{value: v} }

// FactoryArg is an argument produced by resolving t.
func FactoryArg(t target.Target) Arg { return Arg{factory: t} }

// Factory returns the factory target, if the argument has one.
func (a Arg) Factory() (target.Target, bool) { return a.factory, a.factory != nil }

// Value returns the literal value of a value argument.
func (a Arg) Value() reflect.Value { return a.value }

// Args maps parameter names to configured arguments.
type Args map[string]Arg

// Arguments holds configured arguments per target and context.
type Arguments struct {
	config *ContextConfig[Args]
}

func NewArguments() *Arguments {
	return &Arguments{config: NewContextConfig[Args](DefaultFunc[Args](func(Entry) Args {
		return Args{}
	}))}
}

// Get returns the arguments visible for e. The map must not be modified.
func (a *Arguments) Get(e Entry) Args { return a.config.Get(e) }

// Merge adds args to those stored at exactly e; later names win.
func (a *Arguments) Merge(e Entry, args Args) {
	existing, _ := a.config.Exact(e)
	merged := make(Args, len(existing)+len(args))
	for name, arg := range existing {
		merged[name] = arg
	}
	for name, arg := range args {
		merged[name] = arg
	}
	a.config.Set(e, merged)
}

func (a *Arguments) Delete(e Entry) { a.config.Delete(e) }

// ── Dependencies ──────────────────────────────────────────────────────────────

// Dependencies is the ordered set of types that must be supplied from outside.
type Dependencies struct {
	order    []target.Target
	declared map[target.Target]bool
}

func NewDependencies() *Dependencies {
	return &Dependencies{declared: make(map[target.Target]bool)}
}

func (d *Dependencies) Add(t target.Target) {
	if d.declared[t] {
		return
	}
	d.declared[t] = true
	d.order = append(d.order, t)
}

func (d *Dependencies) Has(t target.Target) bool { return d.declared[t] }

func (d *Dependencies) Remove(t target.Target) {
	if !d.declared[t] {
		return
	}
	delete(d.declared, t)
	for i, o := range d.order {
		if o == t {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Pending returns the declared types, in declaration order.
func (d *Dependencies) Pending() []target.Target {
	out := make([]target.Target, len(d.order))
	copy(out, d.order)
	return out
}

// ── Backend ───────────────────────────────────────────────────────────────────

// Backend groups the configuration facets of one container.
type Backend struct {
	Bindings     *Bindings
	Lifetimes    *Lifetimes
	Instances    *Instances
	Arguments    *Arguments
	Dependencies *Dependencies
}

func NewBackend(defaultLifetime Lifetime) *Backend {
	return &Backend{
		Bindings:     NewBindings(),
		Lifetimes:    NewLifetimes(defaultLifetime),
		Instances:    NewInstances(),
		Arguments:    NewArguments(),
		Dependencies: NewDependencies(),
	}
}

// Reset drops everything configured at exactly e, and the dependency declaration
// of e.Target.
func (b *Backend) Reset(e Entry) {
	b.Bindings.Delete(e)
	b.Lifetimes.Delete(e)
	b.Instances.Delete(e)
	b.Arguments.Delete(e)
	b.Dependencies.Remove(e.Target)
}
