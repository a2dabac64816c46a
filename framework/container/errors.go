package container

import "github.com/pkg/errors"

// Configuration errors. They are returned by the Config methods and by New,
// and always wrap one of these sentinels so callers can test with errors.Is.
var (
	ErrInvalidBinding       = errors.New("invalid binding")
	ErrUnknownArgument      = errors.New("unknown argument")
	ErrArgumentType         = errors.New("argument type mismatch")
	ErrMissingReturnType    = errors.New("factory has no return type")
	ErrWrongInstanceType    = errors.New("instance has the wrong type")
	ErrInvalidDependency    = errors.New("invalid dependency")
	ErrUndeclaredDependency = errors.New("dependency was not declared")
	ErrMissingDependency    = errors.New("declared dependency was not supplied")
)
