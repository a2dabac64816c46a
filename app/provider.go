package app

import (
	"net/http"

	"github.com/rs/zerolog"

	framework "github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/providers"
)

// AppServiceProvider wires the greeting domain.
type AppServiceProvider struct {
	container.BaseProvider

	// Title addresses admin visitors. Defaults to "Admin".
	Title string

	// Log is tagged per controller.
	Log zerolog.Logger
}

func (p *AppServiceProvider) Register(cfg *container.Config) error {
	title := p.Title
	if title == "" {
		title = "Admin"
	}

	if err := cfg.Bind(container.TypeOf[Greeter](), container.TypeOf[*PlainGreeter]()); err != nil {
		return err
	}
	if err := cfg.Singleton(container.TypeOf[*VisitCounter]()); err != nil {
		return err
	}
	if err := cfg.Arguments(container.TypeOf[*FormalGreeter](), container.Args{
		"Salutation": "Good day",
		"title":      title,
	}); err != nil {
		return err
	}
	if err := providers.ForComponent(cfg, p.Log, container.TypeOf[*HomeController](), "home"); err != nil {
		return err
	}
	if err := providers.ForComponent(cfg, p.Log, container.TypeOf[*AdminController](), "admin"); err != nil {
		return err
	}
	return cfg.When(container.TypeOf[*AdminController]()).
		Needs(container.TypeOf[Greeter]()).
		Give(container.TypeOf[*FormalGreeter]())
}

// Routes mounts the application routes on a's router:
//
//	GET /         HomeController
//	GET /admin    AdminController
//	GET /metrics  Prometheus exposition
func Routes(a *framework.Application) error {
	r, err := a.Router()
	if err != nil {
		return err
	}
	r.Resolve(http.MethodGet, "/", a, container.TypeOf[*HomeController]())
	r.Resolve(http.MethodGet, "/admin", a, container.TypeOf[*AdminController]())
	r.Handle("/metrics", a.Metrics().Handler())
	return nil
}
