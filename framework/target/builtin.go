package target

import (
	"bytes"
	"reflect"
)

// builtins are the primitive value types that resolve to an empty value instead
// of being constructed: integer, float, text, byte slice and mutable byte buffer.
var builtins = []reflect.Type{
	reflect.TypeOf(int(0)),
	reflect.TypeOf(float64(0)),
	reflect.TypeOf(""),
	reflect.TypeOf([]byte(nil)),
	reflect.TypeOf((*bytes.Buffer)(nil)),
}

// Builtins returns the default builtin allow-list.
func Builtins() []reflect.Type {
	out := make([]reflect.Type, len(builtins))
	copy(out, builtins)
	return out
}

// IsBuiltin reports whether t is in the default builtin allow-list.
func IsBuiltin(t reflect.Type) bool {
	for _, b := range builtins {
		if b == t {
			return true
		}
	}
	return false
}

// Empty returns a fresh empty value of t. Slices are non-nil and empty, pointers
// point at a newly allocated zero value, everything else is the zero value.
func Empty(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Ptr:
		return reflect.New(t.Elem())
	default:
		return reflect.Zero(t)
	}
}
