package resolver

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/km-arc/go-injector/framework/registry"
	"github.com/km-arc/go-injector/framework/target"
)

// ── Instance ──────────────────────────────────────────────────────────────────

// InstanceHandler returns a value already stored for the request, pre-set or
// cached, as is.
type InstanceHandler struct {
	instances *registry.Instances
}

func NewInstanceHandler(instances *registry.Instances) *InstanceHandler {
	return &InstanceHandler{instances: instances}
}

func (h *InstanceHandler) String() string { return "instance" }

func (h *InstanceHandler) CanHandle(req Request) bool {
	return h.instances.Has(req.Local())
}

func (h *InstanceHandler) Handle(req Request) (reflect.Value, error) {
	return h.instances.Get(req.Local()), nil
}

// ── Binding ───────────────────────────────────────────────────────────────────

// BindingHandler follows a binding and resolves the bound target instead. The
// redirected request passes through the whole chain again, so chained bindings
// are followed one hop at a time.
type BindingHandler struct {
	resolver *Resolver
	bindings *registry.Bindings
}

func NewBindingHandler(r *Resolver, bindings *registry.Bindings) *BindingHandler {
	return &BindingHandler{resolver: r, bindings: bindings}
}

func (h *BindingHandler) String() string { return "binding" }

func (h *BindingHandler) CanHandle(req Request) bool {
	return h.bindings.Get(req.Local()) != req.Real
}

func (h *BindingHandler) Handle(req Request) (reflect.Value, error) {
	return h.resolver.Resolve(req.Rebound(h.bindings.Get(req.Local())))
}

// ── Singleton ─────────────────────────────────────────────────────────────────

// Anchor picks the target a singleton is identified by.
type Anchor int

const (
	// AnchorBase keys singletons on the originally requested target, so a
	// singleton declared on an interface survives being bound elsewhere.
	AnchorBase Anchor = iota
	// AnchorEffective keys singletons on the target being built.
	AnchorEffective
)

func (a Anchor) of(req Request) target.Target {
	if a == AnchorBase {
		return req.Base
	}
	return req.Real
}

// SingletonHandler builds the value once and replays it. Where the value is
// cached follows where the lifetime was declared: a lifetime declared for the
// consuming context keeps the value private to it, a global one shares it with
// every context.
type SingletonHandler struct {
	anchor    Anchor
	lifetimes *registry.Lifetimes
	instances *registry.Instances
	factory   *InstanceFactory
}

func NewSingletonHandler(anchor Anchor, lifetimes *registry.Lifetimes, instances *registry.Instances, factory *InstanceFactory) *SingletonHandler {
	return &SingletonHandler{anchor: anchor, lifetimes: lifetimes, instances: instances, factory: factory}
}

func (h *SingletonHandler) String() string {
	if h.anchor == AnchorBase {
		return "singleton-base"
	}
	return "singleton-effective"
}

func (h *SingletonHandler) CanHandle(req Request) bool {
	return h.lifetimes.IsSingleton(h.local(req))
}

func (h *SingletonHandler) Handle(req Request) (reflect.Value, error) {
	local := h.local(req)
	if v, ok := h.instances.Lookup(local); ok {
		return v, nil
	}

	v, err := h.factory.Create(req)
	if err != nil {
		return reflect.Value{}, err
	}

	key := local
	if h.lifetimes.Visibility(local) == registry.VisibilityGlobal {
		key = registry.Global(h.anchor.of(req))
	}
	h.instances.Set(key, v)
	return v, nil
}

func (h *SingletonHandler) local(req Request) registry.Entry {
	return registry.Local(h.anchor.of(req), req.Context)
}

// ── Abstract ──────────────────────────────────────────────────────────────────

// AbstractHandler rejects interfaces that no binding redirected.
type AbstractHandler struct{}

func (AbstractHandler) String() string { return "abstract" }

func (AbstractHandler) CanHandle(req Request) bool { return req.Real.Abstract() }

func (AbstractHandler) Handle(req Request) (reflect.Value, error) {
	return reflect.Value{}, errors.Wrap(ErrAbstractType, req.Real.String())
}

// ── Builtin ───────────────────────────────────────────────────────────────────

// BuiltinHandler returns a fresh empty value for primitive types.
type BuiltinHandler struct {
	types map[reflect.Type]bool
}

// NewBuiltinHandler claims exactly types; see target.Builtins for the default list.
func NewBuiltinHandler(types []reflect.Type) *BuiltinHandler {
	m := make(map[reflect.Type]bool, len(types))
	for _, t := range types {
		m[t] = true
	}
	return &BuiltinHandler{types: m}
}

func (h *BuiltinHandler) String() string { return "builtin" }

func (h *BuiltinHandler) CanHandle(req Request) bool {
	t := req.Real.Type()
	return t != nil && req.Real == target.Of(t) && h.types[t]
}

func (h *BuiltinHandler) Handle(req Request) (reflect.Value, error) {
	return target.Empty(req.Real.Type()), nil
}

// ── New instance ──────────────────────────────────────────────────────────────

// DefaultHandler claims everything and builds a new value. It terminates the chain.
type DefaultHandler struct {
	factory *InstanceFactory
}

func NewDefaultHandler(factory *InstanceFactory) *DefaultHandler {
	return &DefaultHandler{factory: factory}
}

func (h *DefaultHandler) String() string { return "new" }

func (h *DefaultHandler) CanHandle(Request) bool { return true }

func (h *DefaultHandler) Handle(req Request) (reflect.Value, error) {
	return h.factory.Create(req)
}

// ── Chain ─────────────────────────────────────────────────────────────────────

// Wire installs the standard chain on r, reading configuration from be:
//
//	instance → binding → singleton(base) → singleton(effective) → abstract → builtin → new
//
// A singleton declared on the base target takes precedence over one declared on
// the effective target.
func Wire(r *Resolver, be *registry.Backend, builtins []reflect.Type) {
	factory := NewInstanceFactory(r, be.Arguments)
	builtin := NewBuiltinHandler(builtins)
	factory.builtins = builtin.types
	r.Add(
		NewInstanceHandler(be.Instances),
		NewBindingHandler(r, be.Bindings),
		NewSingletonHandler(AnchorBase, be.Lifetimes, be.Instances, factory),
		NewSingletonHandler(AnchorEffective, be.Lifetimes, be.Instances, factory),
		AbstractHandler{},
		builtin,
		NewDefaultHandler(factory),
	)
}
