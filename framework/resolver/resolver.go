package resolver

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-injector/framework/target"
)

var (
	// ErrAbstractType is returned when an interface is reached with no binding for it.
	ErrAbstractType = errors.New("no binding for abstract type")
	// ErrMaxDepth is returned when a resolution nests deeper than the configured limit,
	// which in practice means a dependency or binding cycle.
	ErrMaxDepth = errors.New("maximum resolution depth exceeded")
)

// DefaultMaxDepth bounds nesting of rebinds and dependencies.
const DefaultMaxDepth = 1000

// Handler is one link of the resolution chain.
type Handler interface {
	fmt.Stringer

	// CanHandle reports whether the handler claims req.
	CanHandle(req Request) bool

	// Handle produces the value for a claimed request.
	Handle(req Request) (reflect.Value, error)
}

// Hook observes every handled request, after the handler returned.
type Hook func(req Request, handler string, err error)

// Resolver walks its handlers in order and lets the first claimant produce the value.
type Resolver struct {
	handlers []Handler
	hooks    []Hook
	log      zerolog.Logger
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger receiving trace events for each claimed request.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// WithMaxDepth sets the nesting limit; zero or less disables the guard.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) { r.maxDepth = n }
}

// WithHook adds a hook.
func WithHook(h Hook) Option {
	return func(r *Resolver) {
		if h != nil {
			r.hooks = append(r.hooks, h)
		}
	}
}

// New creates a resolver without handlers.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: zerolog.Nop(), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add appends handlers to the chain. Order is precedence.
func (r *Resolver) Add(handlers ...Handler) {
	r.handlers = append(r.handlers, handlers...)
}

// Get resolves t as a top-level request.
func (r *Resolver) Get(t target.Target) (reflect.Value, error) {
	return r.Resolve(Root(t))
}

// Resolve hands req to the first handler that claims it. A chain in which no
// handler claims a request is a wiring bug and panics.
func (r *Resolver) Resolve(req Request) (reflect.Value, error) {
	if r.maxDepth > 0 && req.depth > r.maxDepth {
		return reflect.Value{}, errors.Wrapf(ErrMaxDepth, "%d levels at %s", r.maxDepth, req)
	}

	for _, h := range r.handlers {
		if !h.CanHandle(req) {
			continue
		}

		r.log.Trace().
			Str("handler", h.String()).
			Stringer("real", req.Real).
			Stringer("base", req.Base).
			Stringer("context", req.Context).
			Int("depth", req.depth).
			Msg("resolve")

		v, err := h.Handle(req)
		for _, hook := range r.hooks {
			hook(req, h.String(), err)
		}
		return v, err
	}

	panic(fmt.Sprintf("resolver: no handler claimed %s; the chain needs a default handler", req))
}
