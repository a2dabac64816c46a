package container

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/km-arc/go-injector/framework/registry"
	"github.com/km-arc/go-injector/framework/target"
)

// Config is the write side of a container, handed to the configure function
// and to ServiceProvider.Register. Every method validates its input and leaves
// the configuration untouched on error.
type Config struct {
	backend *registry.Backend
}

// Args are constructor arguments by parameter name. For a struct target the
// names are its exported field names (or their inject tag); for a factory
// they are the names given to target.NewFunc.
type Args map[string]any

// ── Entry options ─────────────────────────────────────────────────────────────

type entry struct {
	where       Target
	lifetime    Lifetime
	hasLifetime bool
}

func (e entry) of(t Target) registry.Entry { return registry.Local(t, e.where) }

// EntryOption scopes or extends a configuration call.
type EntryOption func(*entry)

// Where restricts the configuration to requests made on behalf of consumer,
// i.e. to the dependencies consumer's constructor asks for. Consumer is the
// concrete target being built, after its own bindings were followed.
func Where(consumer Target) EntryOption {
	return func(e *entry) { e.where = consumer }
}

// WithLifetime sets the lifetime of the configured target in the same call.
func WithLifetime(l Lifetime) EntryOption {
	return func(e *entry) { e.lifetime, e.hasLifetime = l, true }
}

func entryOf(opts []EntryOption) entry {
	var e entry
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (cfg *Config) setLifetime(e entry, t Target) error {
	if !e.hasLifetime {
		return nil
	}
	return cfg.Lifetime(t, e.lifetime, Where(e.where))
}

// ── Bindings ──────────────────────────────────────────────────────────────────

// Bind makes requests for abstract produce to instead. to must produce a value
// assignable to abstract; a factory whose result is an interface is checked
// against that interface.
//
//	cfg.Bind(container.TypeOf[Cache](), container.TypeOf[*RedisCache]())
//	cfg.Bind(container.TypeOf[Cache](), target.MustFunc(NewRedisCache, "addr"))
func (cfg *Config) Bind(abstract, to Target, opts ...EntryOption) error {
	if abstract == nil || to == nil {
		return errors.Wrap(ErrInvalidBinding, "container: nil target")
	}
	want := abstract.Type()
	if want == nil {
		return errors.Wrapf(ErrInvalidBinding, "container: %s produces nothing", abstract)
	}
	got := to.Type()
	if got == nil {
		return errors.Wrapf(ErrMissingReturnType, "container: %s", to)
	}
	if !got.AssignableTo(want) {
		return errors.Wrapf(ErrInvalidBinding, "container: %s does not produce a %s", to, want)
	}

	e := entryOf(opts)
	if err := cfg.setLifetime(e, abstract); err != nil {
		return err
	}
	cfg.backend.Bindings.Set(e.of(abstract), to)
	return nil
}

// Lifetime sets how often t is built. Inherit removes the override.
//
// A lifetime set on an interface applies to whatever it is bound to; a
// lifetime set on a concrete target applies however it is reached. When both
// are singletons the interface's cache is used.
func (cfg *Config) Lifetime(t Target, l Lifetime, opts ...EntryOption) error {
	if t == nil {
		return errors.New("container: nil target")
	}
	switch l {
	case Transient, Singleton, Inherit:
	default:
		return errors.Errorf("container: invalid lifetime %s for %s", l, t)
	}
	cfg.backend.Lifetimes.Set(entryOf(opts).of(t), l)
	return nil
}

// Singleton is shorthand for Lifetime(t, Singleton, opts...).
func (cfg *Config) Singleton(t Target, opts ...EntryOption) error {
	return cfg.Lifetime(t, Singleton, opts...)
}

// Transient is shorthand for Lifetime(t, Transient, opts...).
func (cfg *Config) Transient(t Target, opts ...EntryOption) error {
	return cfg.Lifetime(t, Transient, opts...)
}

// ── Instances ─────────────────────────────────────────────────────────────────

// Instance makes every request for t return v itself.
func (cfg *Config) Instance(t Target, v any, opts ...EntryOption) error {
	if t == nil {
		return errors.New("container: nil target")
	}
	want := t.Type()
	if v == nil {
		return errors.Wrapf(ErrWrongInstanceType, "container: nil for %s", t)
	}
	if want == nil || !reflect.TypeOf(v).AssignableTo(want) {
		return errors.Wrapf(ErrWrongInstanceType, "container: %T for %s", v, t)
	}
	cfg.backend.Instances.Set(entryOf(opts).of(t), reflect.ValueOf(v))
	return nil
}

// ── Arguments ─────────────────────────────────────────────────────────────────

// Arguments fixes constructor arguments of t. Later calls add to and override
// earlier ones at the same scope. Numeric values are converted to the parameter
// type when the conversion is exact, so Args{"Ratio": 2} fits a float64.
// A nil value gives the zero value of a nillable parameter.
//
//	cfg.Arguments(container.TypeOf[*Pool](), container.Args{"Size": 8})
func (cfg *Config) Arguments(t Target, args Args, opts ...EntryOption) error {
	if t == nil {
		return errors.New("container: nil target")
	}
	converted := make(registry.Args, len(args))
	for name, value := range args {
		p, ok := target.Lookup(t, name)
		if !ok {
			return errors.Wrapf(ErrUnknownArgument, "container: %s has no parameter %q", t, name)
		}
		v, err := argumentValue(p, value)
		if err != nil {
			return errors.WithMessagef(err, "container: %s: parameter %s", t, name)
		}
		converted[name] = registry.ValueArg(v)
	}

	e := entryOf(opts)
	if err := cfg.setLifetime(e, t); err != nil {
		return err
	}
	cfg.backend.Arguments.Merge(e.of(t), converted)
	return nil
}

// ArgFactory makes the named parameters of t take the result of resolving the
// given targets. The factories are resolved with t as their context.
//
//	cfg.ArgFactory(container.TypeOf[*Client](), map[string]container.Target{
//	    "Timeout": target.MustFunc(func() time.Duration { return 3 * time.Second }),
//	})
func (cfg *Config) ArgFactory(t Target, factories map[string]Target, opts ...EntryOption) error {
	if t == nil {
		return errors.New("container: nil target")
	}
	converted := make(registry.Args, len(factories))
	for name, f := range factories {
		p, ok := target.Lookup(t, name)
		if !ok {
			return errors.Wrapf(ErrUnknownArgument, "container: %s has no parameter %q", t, name)
		}
		if f == nil {
			return errors.Wrapf(ErrArgumentType, "container: %s: nil factory for %s", t, name)
		}
		out := f.Type()
		if out == nil {
			return errors.Wrapf(ErrMissingReturnType, "container: %s: factory %s for %s", t, f, name)
		}
		if !out.AssignableTo(p.Type) {
			return errors.Wrapf(ErrArgumentType, "container: %s: %s produces %s, parameter %s is %s", t, f, out, name, p.Type)
		}
		converted[name] = registry.FactoryArg(f)
	}

	e := entryOf(opts)
	if err := cfg.setLifetime(e, t); err != nil {
		return err
	}
	cfg.backend.Arguments.Merge(e.of(t), converted)
	return nil
}

func argumentValue(p target.Param, value any) (reflect.Value, error) {
	if value == nil {
		switch p.Type.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return reflect.Value{}, nil
		}
		return reflect.Value{}, errors.Wrapf(ErrArgumentType, "nil for %s", p.Type)
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(p.Type) {
		return v, nil
	}
	if numeric(v.Type()) && numeric(p.Type) {
		c := v.Convert(p.Type)
		if negative(c) == negative(v) && c.Convert(v.Type()).Interface() == v.Interface() {
			return c, nil
		}
		return reflect.Value{}, errors.Wrapf(ErrArgumentType, "%v does not fit %s", value, p.Type)
	}
	return reflect.Value{}, errors.Wrapf(ErrArgumentType, "%T for %s", value, p.Type)
}

func numeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func negative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	}
	return false
}

// ── Factories ─────────────────────────────────────────────────────────────────

// Callable registers fn as the way to build its return type: requests for that
// type are bound to fn. A lifetime given with WithLifetime applies to fn.
//
//	cfg.Callable(target.MustFunc(NewDB, "dsn"), container.WithLifetime(container.Singleton))
//	cfg.Arguments(dbFactory, container.Args{"dsn": os.Getenv("DSN")})
func (cfg *Config) Callable(fn *target.Func, opts ...EntryOption) error {
	if fn == nil {
		return errors.Wrap(ErrInvalidBinding, "container: nil factory")
	}
	out := fn.Type()
	if out == nil {
		return errors.Wrapf(ErrMissingReturnType, "container: %s", fn)
	}

	e := entryOf(opts)
	if err := cfg.setLifetime(e, fn); err != nil {
		return err
	}
	cfg.backend.Bindings.Set(e.of(target.Of(out)), fn)
	return nil
}

// ── Dependencies ──────────────────────────────────────────────────────────────

// Dependency declares that an instance of t is supplied when the container is
// built, with WithDependencies. New fails if it is not. t must be a concrete
// type since instances are matched on their exact type.
func (cfg *Config) Dependency(t Target) error {
	if t == nil {
		return errors.Wrap(ErrInvalidDependency, "container: nil target")
	}
	if t.Type() == nil || t != target.Of(t.Type()) || t.Abstract() {
		return errors.Wrapf(ErrInvalidDependency, "container: %s is not a concrete type", t)
	}
	cfg.backend.Dependencies.Add(t)
	return nil
}

// Forget drops everything configured for t at the given scope: binding,
// lifetime, instance, arguments, and a dependency declaration.
func (cfg *Config) Forget(t Target, opts ...EntryOption) {
	if t == nil {
		return
	}
	cfg.backend.Reset(entryOf(opts).of(t))
}
