package resolver

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/km-arc/go-injector/framework/registry"
	"github.com/km-arc/go-injector/framework/target"
)

// InstanceFactory builds a new value of req.Real. Parameters with a configured
// argument take it; all other parameters are resolved recursively in the
// context of req.Real.
type InstanceFactory struct {
	resolver  *Resolver
	arguments *registry.Arguments

	// builtins, when set, is the allow-list in effect. Types of the default
	// list missing from it are not constructible.
	builtins map[reflect.Type]bool
}

func NewInstanceFactory(r *Resolver, args *registry.Arguments) *InstanceFactory {
	return &InstanceFactory{resolver: r, arguments: args}
}

func (f *InstanceFactory) Create(req Request) (reflect.Value, error) {
	t := req.Real
	if t.Abstract() {
		return reflect.Value{}, errors.Wrap(ErrAbstractType, t.String())
	}
	if typ, ok := f.builtin(t); ok {
		if f.builtins[typ] {
			return target.Empty(typ), nil
		}
		if target.IsBuiltin(typ) {
			return reflect.Value{}, errors.Wrapf(target.ErrNotConstructible, "%s is not in the builtin list", t)
		}
	}

	configured := f.arguments.Get(req.Local())
	params := t.Params()
	values := make([]reflect.Value, len(params))

	for i, p := range params {
		v, err := f.param(req, p, configured)
		if err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "%s: parameter %s", t, p.Name)
		}
		values[i] = v
	}

	return t.Build(values)
}

func (f *InstanceFactory) param(req Request, p target.Param, configured registry.Args) (reflect.Value, error) {
	arg, ok := configured[p.Name]
	if !ok {
		return f.resolver.Resolve(req.Dependency(target.Of(p.Type)))
	}
	if factory, ok := arg.Factory(); ok {
		return f.resolver.Resolve(req.Dependency(factory))
	}
	if v := arg.Value(); v.IsValid() {
		return v, nil
	}
	return reflect.Zero(p.Type), nil
}

// builtin returns the type of t when t is a type target and an allow-list is
// in effect.
func (f *InstanceFactory) builtin(t target.Target) (reflect.Type, bool) {
	typ := t.Type()
	if f.builtins == nil || typ == nil || t != target.Of(typ) {
		return nil, false
	}
	return typ, true
}
