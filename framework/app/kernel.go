package app

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/metrics"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/target"
)

// ShutdownTimeout bounds how long Serve waits for in-flight requests.
var ShutdownTimeout = 5 * time.Second

// Application is the top-level application. It owns the container and the
// framework services every application gets: configuration, logging,
// metrics and the router.
//
// The container is not safe for concurrent resolution, so Application
// serializes Get. Handlers resolved per request go through it.
type Application struct {
	container *container.Container
	config    *config.Config
	log       zerolog.Logger
	metrics   *metrics.Collector

	mu sync.Mutex
}

// New creates and boots the application. Framework providers register first
// (same order as Laravel), then configure, then the providers passed in. Each
// step may override what the ones before it registered.
func New(cfg *config.Config, log zerolog.Logger, configure func(*container.Config) error, extra ...container.ServiceProvider) (*Application, error) {
	lifetime, err := cfg.Injector.Lifetime()
	if err != nil {
		return nil, errors.WithMessage(err, "app")
	}

	a := &Application{
		config:  cfg,
		log:     log,
		metrics: metrics.New(cfg.App.Name),
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.MetricsServiceProvider{Collector: a.metrics},
		&providers.RoutingServiceProvider{},
	}
	if configure != nil {
		core = append(core, container.ConfigureFunc(configure))
	}
	c, err := container.New(nil,
		container.WithDefaultLifetime(lifetime),
		container.WithMaxDepth(cfg.Injector.MaxDepth),
		container.WithLogger(logging.Component(log, "container")),
		container.WithHook(a.metrics.Hook()),
		container.WithProviders(core...),
		container.WithProviders(extra...),
	)
	if err != nil {
		return nil, errors.WithMessage(err, "app")
	}
	a.container = c
	return a, nil
}

// Get resolves t. It implements routing.Getter.
func (a *Application) Get(t target.Target) (any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.container.Get(t)
}

// Container returns the underlying container. Resolving through it directly
// bypasses the lock taken by Get.
func (a *Application) Container() *container.Container { return a.container }

// Config returns the configuration the application was built with.
func (a *Application) Config() *config.Config { return a.config }

// Logger returns the application logger.
func (a *Application) Logger() zerolog.Logger { return a.log }

// Metrics returns the application metrics collector.
func (a *Application) Metrics() *metrics.Collector { return a.metrics }

// Router resolves *routing.Router from the container.
func (a *Application) Router() (*routing.Router, error) {
	v, err := a.Get(container.TypeOf[*routing.Router]())
	if err != nil {
		return nil, err
	}
	return v.(*routing.Router), nil
}

// Run listens on the configured port and serves until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.config.App.Port)
	if err != nil {
		return errors.Wrap(err, "app: listen")
	}
	return a.Serve(ctx, ln)
}

// Serve serves the router on ln until ctx is done, then shuts down
// gracefully. ln is closed when Serve returns.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	router, err := a.Router()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	a.log.Info().
		Str("app", a.config.App.Name).
		Str("env", a.Environment()).
		Str("addr", ln.Addr().String()).
		Msg("listening")

	select {
	case err := <-errc:
		return errors.Wrap(err, "app: serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "app: shutdown")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "app: serve")
	}
	a.log.Info().Msg("stopped")
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.config.App.Debug }

// Controller is an embeddable base for HTTP controllers. Embed it with
// `inject:"-"` so the container leaves it alone.
type Controller struct{}

func (Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
