package resolver

import (
	"fmt"

	"github.com/km-arc/go-injector/framework/registry"
	"github.com/km-arc/go-injector/framework/target"
)

// Request describes one resolution: what to produce (Real), what the caller
// originally asked for before any binding redirected it (Base), and on whose
// behalf it is produced (Context).
type Request struct {
	Real    target.Target
	Base    target.Target
	Context target.Target

	depth int
}

// Root is the request for a top-level Get: Real, Base and Context are all t.
func Root(t target.Target) Request {
	return Request{Real: t, Base: t, Context: t}
}

// Rebound redirects the request to another target, keeping Base and Context.
func (r Request) Rebound(to target.Target) Request {
	return Request{Real: to, Base: r.Base, Context: r.Context, depth: r.depth + 1}
}

// Dependency is the request for a dependency of r.Real, resolved in its context.
func (r Request) Dependency(t target.Target) Request {
	return Request{Real: t, Base: t, Context: r.Real, depth: r.depth + 1}
}

// Depth counts how many rebinds and dependencies led to this request.
func (r Request) Depth() int { return r.depth }

func (r Request) Local() registry.Entry      { return registry.Local(r.Real, r.Context) }
func (r Request) Global() registry.Entry     { return registry.Global(r.Real) }
func (r Request) LocalBase() registry.Entry  { return registry.Local(r.Base, r.Context) }
func (r Request) GlobalBase() registry.Entry { return registry.Global(r.Base) }

func (r Request) String() string {
	if r.Real == r.Base {
		return fmt.Sprintf("%s (in %s)", r.Real, r.Context)
	}
	return fmt.Sprintf("%s as %s (in %s)", r.Real, r.Base, r.Context)
}
