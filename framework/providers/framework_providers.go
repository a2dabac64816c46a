package providers

import (
	"github.com/rs/zerolog"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/metrics"
	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/target"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider makes the loaded configuration injectable.
//
// Provided targets:
//   - *config.Config
//   - config.AppConfig
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(cfg *container.Config) error {
	if err := cfg.Instance(container.TypeOf[*config.Config](), p.Config); err != nil {
		return err
	}
	return cfg.Instance(container.TypeOf[config.AppConfig](), p.Config.App)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider makes the application logger injectable. Every
// consumer gets the logger tagged with its own type as component.
//
// Provided targets:
//   - zerolog.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger zerolog.Logger
}

func (p *LoggingServiceProvider) Register(cfg *container.Config) error {
	return cfg.Instance(container.TypeOf[zerolog.Logger](), p.Logger)
}

// ForComponent registers a logger tagged with name for consumer alone.
func ForComponent(cfg *container.Config, log zerolog.Logger, consumer container.Target, name string) error {
	return cfg.When(consumer).Needs(container.TypeOf[zerolog.Logger]()).GiveValue(logging.Component(log, name))
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider makes the metrics collector injectable.
//
// Provided targets:
//   - *metrics.Collector
type MetricsServiceProvider struct {
	container.BaseProvider
	Collector *metrics.Collector
}

func (p *MetricsServiceProvider) Register(cfg *container.Config) error {
	return cfg.Instance(container.TypeOf[*metrics.Collector](), p.Collector)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router as a singleton built from
// the injected logger and metrics collector.
//
// Provided targets:
//   - *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

var newRouter = target.MustFunc(func(log zerolog.Logger, m *metrics.Collector) *routing.Router {
	return routing.New(logging.Component(log, "http"), m.Middleware)
}, "log", "metrics")

func (p *RoutingServiceProvider) Register(cfg *container.Config) error {
	return cfg.Callable(newRouter, container.WithLifetime(container.Singleton))
}
