package registry

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Lifetime decides whether resolved values are reused.
type Lifetime int

const (
	// Transient values are built on every resolution.
	Transient Lifetime = iota
	// Singleton values are built once per scope and reused.
	Singleton
	// Inherit means "no override": the container default applies.
	Inherit
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	case Inherit:
		return "inherit"
	}
	return "Lifetime(" + strconv.Itoa(int(l)) + ")"
}

// ParseLifetime parses "transient" or "singleton", case-insensitively.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient":
		return Transient, nil
	case "singleton":
		return Singleton, nil
	}
	return Inherit, errors.Errorf("registry: unknown lifetime %q", s)
}
