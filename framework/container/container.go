package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-injector/framework/registry"
	"github.com/km-arc/go-injector/framework/resolver"
	"github.com/km-arc/go-injector/framework/target"
)

// Target is anything the container can produce: a type (see TypeOf) or a
// factory (see target.NewFunc).
type Target = target.Target

// TypeOf returns the target for T.
//
//	container.TypeOf[*UserService]()
//	container.TypeOf[Cache]() // interface: needs a binding
func TypeOf[T any]() Target { return target.TypeOf[T]() }

// Lifetime decides whether a target is built once or on every request.
type Lifetime = registry.Lifetime

const (
	Transient = registry.Transient
	Singleton = registry.Singleton
	// Inherit removes a lifetime override so the container default applies again.
	Inherit = registry.Inherit
)

// ParseLifetime accepts "transient" and "singleton".
func ParseLifetime(s string) (Lifetime, error) { return registry.ParseLifetime(s) }

// ── Container ─────────────────────────────────────────────────────────────────

// Container resolves targets from the configuration it was built with. The
// configuration is fixed once New returns; only cached singletons change
// afterwards.
type Container struct {
	resolver *resolver.Resolver
	backend  *registry.Backend
	log      zerolog.Logger

	afterResolving []func(t Target, instance any)
}

type options struct {
	defaultLifetime Lifetime
	dependencies    []any
	providers       []ServiceProvider
	log             zerolog.Logger
	maxDepth        int
	hooks           []resolver.Hook
	builtins        []reflect.Type
}

// Option configures New.
type Option func(*options)

// WithDefaultLifetime sets the lifetime of targets nobody configured. Transient
// unless set.
func WithDefaultLifetime(l Lifetime) Option {
	return func(o *options) { o.defaultLifetime = l }
}

// WithDependencies supplies instances for targets declared with
// Config.Dependency. Each instance is matched on its exact run-time type.
func WithDependencies(deps ...any) Option {
	return func(o *options) { o.dependencies = append(o.dependencies, deps...) }
}

// WithProviders adds service providers. Their Register runs after the
// configure function, in order; Boot runs once the container is complete.
func WithProviders(providers ...ServiceProvider) Option {
	return func(o *options) { o.providers = append(o.providers, providers...) }
}

// WithLogger sets the logger for provider lifecycle events and resolution traces.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMaxDepth bounds how deeply resolutions may nest before failing with
// resolver.ErrMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithHook observes every request the resolver hands to a handler.
func WithHook(h resolver.Hook) Option {
	return func(o *options) { o.hooks = append(o.hooks, h) }
}

// WithBuiltins replaces the list of types that resolve to an empty value. A
// type of target.Builtins left out of types is no longer constructible.
func WithBuiltins(types ...reflect.Type) Option {
	return func(o *options) { o.builtins = types }
}

// New builds a container. configure may be nil.
//
//	c, err := container.New(func(cfg *container.Config) error {
//	    if err := cfg.Bind(container.TypeOf[Cache](), container.TypeOf[*RedisCache]()); err != nil {
//	        return err
//	    }
//	    return cfg.Lifetime(container.TypeOf[Cache](), container.Singleton)
//	})
func New(configure func(cfg *Config) error, opts ...Option) (*Container, error) {
	o := options{
		defaultLifetime: Transient,
		log:             zerolog.Nop(),
		maxDepth:        resolver.DefaultMaxDepth,
		builtins:        target.Builtins(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaultLifetime != Transient && o.defaultLifetime != Singleton {
		return nil, errors.Errorf("container: default lifetime must be transient or singleton, got %s", o.defaultLifetime)
	}

	be := registry.NewBackend(o.defaultLifetime)
	ropts := []resolver.Option{resolver.WithLogger(o.log), resolver.WithMaxDepth(o.maxDepth)}
	for _, h := range o.hooks {
		ropts = append(ropts, resolver.WithHook(h))
	}
	r := resolver.New(ropts...)
	resolver.Wire(r, be, o.builtins)

	c := &Container{resolver: r, backend: be, log: o.log}
	cfg := &Config{backend: be}

	if configure != nil {
		if err := configure(cfg); err != nil {
			return nil, errors.WithMessage(err, "container: configure")
		}
	}

	providers := newProviderSet(o.providers)
	if err := providers.register(cfg, o.log); err != nil {
		return nil, err
	}
	if err := supply(be, o.dependencies); err != nil {
		return nil, err
	}
	if err := providers.boot(c, o.log); err != nil {
		return nil, err
	}

	o.log.Debug().
		Int("providers", len(providers.list)).
		Str("default_lifetime", o.defaultLifetime.String()).
		Msg("container ready")
	return c, nil
}

func supply(be *registry.Backend, deps []any) error {
	for _, dep := range deps {
		if dep == nil {
			return errors.Wrap(ErrUndeclaredDependency, "container: nil instance")
		}
		t := target.ValueOf(dep)
		if !be.Dependencies.Has(t) {
			return errors.Wrapf(ErrUndeclaredDependency, "container: %s", t)
		}
		be.Instances.Set(registry.Global(t), reflect.ValueOf(dep))
		be.Dependencies.Remove(t)
	}

	if pending := be.Dependencies.Pending(); len(pending) > 0 {
		names := make([]string, len(pending))
		for i, t := range pending {
			names[i] = t.String()
		}
		return errors.Wrapf(ErrMissingDependency, "container: %s", strings.Join(names, ", "))
	}
	return nil
}

// ── Resolving ─────────────────────────────────────────────────────────────────

// Get resolves t. The result is nil for targets whose value is a nil interface
// or pointer, e.g. a factory returning nil.
func (c *Container) Get(t Target) (any, error) {
	if t == nil {
		return nil, errors.New("container: nil target")
	}

	v, err := c.resolver.Get(t)
	if err != nil {
		return nil, err
	}

	var instance any
	if v.IsValid() {
		instance = v.Interface()
	}
	for _, cb := range c.afterResolving {
		cb(t, instance)
	}
	return instance, nil
}

// Resolve is the typed form of Get.
//
//	svc, err := container.Resolve[*UserService](c)
func Resolve[T any](c *Container) (T, error) {
	var zero T
	t := target.TypeOf[T]()

	instance, err := c.Get(t)
	if err != nil || instance == nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, errors.Errorf("container: %s resolved to %T", t, instance)
	}
	return typed, nil
}

// MustResolve is Resolve that panics on error. Meant for program wiring where
// a failure is a bug.
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("container: %v", err))
	}
	return v
}

// Call resolves fn as a target and returns its result.
//
//	greeting, err := c.Call(target.MustFunc(func(g Greeter) string { return g.Greet("Ann") }, "g"))
func (c *Container) Call(fn *target.Func) (any, error) {
	return c.Get(fn)
}

// AfterResolving registers a callback fired after each successful Get, with the
// requested target and the value handed to the caller. Callbacks must be
// registered before the container is shared between goroutines.
func (c *Container) AfterResolving(cb func(t Target, instance any)) {
	c.afterResolving = append(c.afterResolving, cb)
}

// Resolved reports whether a global singleton or instance is stored for t.
func (c *Container) Resolved(t Target) bool {
	return c.backend.Instances.Has(registry.Global(t))
}
