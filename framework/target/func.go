package target

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/pkg/errors"
)

// ErrNotFunc is returned when a factory is not a usable Go function.
var ErrNotFunc = errors.New("not a usable function")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Func is a factory function used as a Target. Its arguments are its dependencies;
// its first non-error result is the value it yields.
//
// Go keeps no parameter names at run time, so they are declared when wrapping:
//
//	newMailer := target.MustFunc(func(host string, port int) *Mailer {
//	    return &Mailer{Host: host, Port: port}
//	}, "host", "port")
//
// Unnamed arguments are called arg0, arg1, ...
type Func struct {
	name   string
	params []Param
	out    reflect.Type
	fails  bool
	call   func(args []reflect.Value) []reflect.Value
}

// NewFunc wraps fn. fn may return nothing, a value, a value and an error, or only
// an error. Variadic functions are rejected.
func NewFunc(fn any, names ...string) (*Func, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, errors.Wrapf(ErrNotFunc, "%T", fn)
	}
	ft := v.Type()

	in := make([]reflect.Type, ft.NumIn())
	for i := range in {
		in[i] = ft.In(i)
	}
	f := &Func{
		name: runtime.FuncForPC(v.Pointer()).Name(),
		call: v.Call,
	}
	if err := f.signature(ft, in, names); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFunc is like NewFunc but panics on error. Handy for package-level factories.
func MustFunc(fn any, names ...string) *Func {
	f, err := NewFunc(fn, names...)
	if err != nil {
		panic(err)
	}
	return f
}

// Method wraps the method called name of recv as a factory whose first parameter,
// "recv", is the receiver. The receiver is resolved like any other dependency, so
// the method of a not-yet-constructed type can serve as a factory: the container
// builds the receiver first and then invokes the method on it.
//
//	getInt, _ := target.Method(reflect.TypeOf(&IntSource{}), "Int")
func Method(recv reflect.Type, name string, names ...string) (*Func, error) {
	m, ok := recv.MethodByName(name)
	if !ok {
		return nil, errors.Wrapf(ErrNotFunc, "%s has no method %s", recv, name)
	}

	mt := m.Type
	first := 1
	if recv.Kind() == reflect.Interface {
		// interface method types carry no receiver
		first = 0
	}

	in := []reflect.Type{recv}
	for i := first; i < mt.NumIn(); i++ {
		in = append(in, mt.In(i))
	}
	f := &Func{
		name: fmt.Sprintf("%s.%s", recv, name),
		call: func(args []reflect.Value) []reflect.Value {
			return args[0].MethodByName(name).Call(args[1:])
		},
	}
	if err := f.signature(mt, in, append([]string{"recv"}, names...)); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Func) signature(ft reflect.Type, in []reflect.Type, names []string) error {
	if ft.IsVariadic() {
		return errors.Wrapf(ErrNotFunc, "%s is variadic", f.name)
	}
	if len(names) > len(in) {
		return errors.Wrapf(ErrNotFunc, "%s takes %d arguments, %d names given", f.name, len(in), len(names))
	}

	seen := make(map[string]bool, len(in))
	for i, t := range in {
		name := fmt.Sprintf("arg%d", i)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		if seen[name] {
			return errors.Wrapf(ErrNotFunc, "%s: duplicate parameter name %q", f.name, name)
		}
		seen[name] = true
		f.params = append(f.params, Param{Name: name, Type: t, index: i})
	}

	n := ft.NumOut()
	if n > 0 && ft.Out(n-1) == errorType {
		f.fails = true
		n--
	}
	switch n {
	case 0:
	case 1:
		f.out = ft.Out(0)
	default:
		return errors.Wrapf(ErrNotFunc, "%s returns %d values", f.name, ft.NumOut())
	}
	return nil
}

func (f *Func) String() string     { return f.name }
func (f *Func) Type() reflect.Type { return f.out }
func (f *Func) Params() []Param    { return f.params }
func (f *Func) Abstract() bool     { return false }

func (f *Func) Build(args []reflect.Value) (reflect.Value, error) {
	if len(args) != len(f.params) {
		return reflect.Value{}, errors.Errorf("target: %s expects %d arguments, got %d", f, len(f.params), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, p := range f.params {
		arg, err := assignable(f, p, args[i])
		if err != nil {
			return reflect.Value{}, err
		}
		in[i] = arg
	}

	out := f.call(in)
	if f.fails {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "%s", f)
		}
	}
	if f.out == nil {
		return reflect.Value{}, nil
	}
	return out[0], nil
}
