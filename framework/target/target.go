package target

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// ErrNotConstructible is returned when a concrete type has no way to be built:
// it is neither a struct, a pointer to a struct nor a builtin.
var ErrNotConstructible = errors.New("type cannot be constructed")

// Param is one dependency of a Target: a struct field or a function argument.
type Param struct {
	Name string
	Type reflect.Type

	index int
}

// Target is anything the container can resolve.
//
// Type targets (Of, TypeOf) compare equal by value, so two calls to TypeOf[*Foo]()
// produce the same map key. Func targets compare by pointer identity; keep the
// *Func around and reuse it wherever the same factory is meant.
type Target interface {
	fmt.Stringer

	// Type is the type of the value the target yields; nil when it yields nothing.
	Type() reflect.Type

	// Params lists the dependencies that must be supplied to Build, in order.
	Params() []Param

	// Abstract reports whether the target can never be built directly.
	Abstract() bool

	// Build produces a value from args, which are aligned with Params.
	Build(args []reflect.Value) (reflect.Value, error)
}

// ── Type targets ──────────────────────────────────────────────────────────────

type typeTarget struct {
	t reflect.Type
}

// Of returns the Target for a reflected type.
//
//	target.Of(reflect.TypeOf(&Mailer{}))
func Of(t reflect.Type) Target {
	if t == nil {
		panic("target: Of(nil)")
	}
	return typeTarget{t: t}
}

// TypeOf returns the Target for T. Use it for interfaces, which cannot be
// obtained through reflect.TypeOf on a value:
//
//	target.TypeOf[io.Writer]()
//	target.TypeOf[*Mailer]()
func TypeOf[T any]() Target {
	return Of(reflect.TypeOf((*T)(nil)).Elem())
}

// ValueOf returns the Target for the run-time type of v.
func ValueOf(v any) Target {
	return Of(reflect.TypeOf(v))
}

func (tt typeTarget) String() string     { return tt.t.String() }
func (tt typeTarget) Type() reflect.Type { return tt.t }
func (tt typeTarget) Abstract() bool     { return tt.t.Kind() == reflect.Interface }

func (tt typeTarget) Params() []Param {
	if IsBuiltin(tt.t) {
		return nil
	}
	s := structOf(tt.t)
	if s == nil {
		return nil
	}
	return fields(s)
}

func (tt typeTarget) Build(args []reflect.Value) (reflect.Value, error) {
	if IsBuiltin(tt.t) {
		return Empty(tt.t), nil
	}
	s := structOf(tt.t)
	if s == nil || tt.Abstract() {
		return reflect.Value{}, errors.Wrapf(ErrNotConstructible, "%s (kind %s)", tt.t, tt.t.Kind())
	}

	params := fields(s)
	if len(args) != len(params) {
		return reflect.Value{}, errors.Errorf("target: %s expects %d arguments, got %d", tt.t, len(params), len(args))
	}

	ptr := reflect.New(s)
	v := ptr.Elem()
	for i, p := range params {
		arg, err := assignable(tt, p, args[i])
		if err != nil {
			return reflect.Value{}, err
		}
		v.Field(p.index).Set(arg)
	}

	if tt.t.Kind() == reflect.Ptr {
		return ptr, nil
	}
	return v, nil
}

// structOf returns the struct type behind S or *S, nil otherwise.
func structOf(t reflect.Type) reflect.Type {
	switch {
	case t.Kind() == reflect.Struct:
		return t
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		return t.Elem()
	}
	return nil
}

// fields lists the injectable fields of s. Unexported fields are skipped, as are
// fields tagged `inject:"-"`; `inject:"name"` renames the parameter.
func fields(s reflect.Type) []Param {
	params := make([]Param, 0, s.NumField())
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("inject"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		params = append(params, Param{Name: name, Type: f.Type, index: i})
	}
	return params
}

func assignable(t Target, p Param, arg reflect.Value) (reflect.Value, error) {
	if !arg.IsValid() {
		return reflect.Zero(p.Type), nil
	}
	if !arg.Type().AssignableTo(p.Type) {
		return reflect.Value{}, errors.Errorf("target: %s: cannot use %s as parameter %s of type %s", t, arg.Type(), p.Name, p.Type)
	}
	return arg, nil
}

// Lookup finds the parameter called name.
func Lookup(t Target, name string) (Param, bool) {
	for _, p := range t.Params() {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
