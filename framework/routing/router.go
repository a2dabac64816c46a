package routing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/target"
)

// Getter is the part of a container routes resolve their handlers from.
type Getter interface {
	Get(t target.Target) (any, error)
}

// Router wraps chi.Router with container-aware helpers.
type Router struct {
	mux chi.Router
	log zerolog.Logger
}

// New creates a Router with sane defaults (RequestID, RealIP, request
// logging to log, Recoverer) followed by mw.
func New(log zerolog.Logger, mw ...func(http.Handler) http.Handler) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(mw...)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).NotFound()
	})
	return &Router{mux: r, log: log}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Handle registers any http.Handler, e.g. a metrics endpoint.
func (r *Router) Handle(pattern string, h http.Handler) { r.mux.Handle(pattern, h) }

// ── Resolved handlers ────────────────────────────────────────────────────────

// Resolve registers a route whose handler is resolved from g on each request,
// so the handler's lifetime is whatever the container says it is. The
// resolved value must be an http.Handler.
//
//	router.Resolve(http.MethodGet, "/", app, container.TypeOf[*HomeController]())
func (r *Router) Resolve(method, pattern string, g Getter, t target.Target) {
	r.mux.Method(method, pattern, Resolved(g, t, r.log))
}

// Resolved returns a handler that resolves t from g and delegates to it.
// Resolution failures answer 500 and are logged.
func Resolved(g Getter, t target.Target, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		v, err := g.Get(t)
		if err == nil {
			h, ok := v.(http.Handler)
			if ok {
				h.ServeHTTP(w, req)
				return
			}
			err = errors.Errorf("routing: %s resolved to %T, not an http.Handler", t, v)
		}

		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(req.Context())).
			Stringer("target", t).
			Msg("resolve handler")
		gohttp.NewResponse(w).ServerError()
	})
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing middleware.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx, log: r.log})
	})
}

// Prefix creates a sub-router with a URL prefix.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx, log: r.log})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router. chi requires them
// before any route is registered.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// RequestLogger logs one info event per request with its outcome.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				log.Info().
					Str("request_id", middleware.GetReqID(req.Context())).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, req)
		})
	}
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to an http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
