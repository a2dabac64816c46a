// Package metrics exposes container and HTTP activity to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-injector/framework/resolver"
)

const namespace = "injector"

// Collector owns a private registry so several applications (and tests) can
// live in one process.
type Collector struct {
	registry *prometheus.Registry

	resolutions *prometheus.CounterVec
	depth       prometheus.Histogram
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a collector whose metrics carry the label app=app.
func New(app string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Requests handled by the resolver, by handler and outcome.",
		}, []string{"handler", "outcome"}),
		depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_depth",
			Help:      "Nesting depth of handled requests.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route pattern and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registerer := prometheus.WrapRegistererWith(prometheus.Labels{"app": app}, c.registry)
	registerer.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		collectors.NewGoCollector(),
		c.resolutions,
		c.depth,
		c.requests,
		c.latency,
	)
	return c
}

// Hook counts every request the resolver handles. Install it with
// container.WithHook.
func (c *Collector) Hook() resolver.Hook {
	return func(req resolver.Request, handler string, err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.resolutions.WithLabelValues(handler, outcome).Inc()
		c.depth.Observe(float64(req.Depth()))
	}
}

// Middleware counts requests and their latency by chi route pattern. Mount it
// on a chi router so the pattern is known once the handler returns.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry gives access to the underlying registry, e.g. to add collectors.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
