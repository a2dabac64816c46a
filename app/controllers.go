package app

import (
	"net/http"

	"github.com/rs/zerolog"

	framework "github.com/km-arc/go-injector/framework/app"
)

// HomeController greets visitors of /.
type HomeController struct {
	framework.Controller `inject:"-"`

	Greeter Greeter
	Visits  *VisitCounter
	Log     zerolog.Logger
}

func (c *HomeController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	greet(c.Controller, c.Greeter, c.Visits, c.Log, w, r)
}

// AdminController greets visitors of /admin. It is configured with its own
// Greeter.
type AdminController struct {
	framework.Controller `inject:"-"`

	Greeter Greeter
	Visits  *VisitCounter
	Log     zerolog.Logger
}

func (c *AdminController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	greet(c.Controller, c.Greeter, c.Visits, c.Log, w, r)
}

func greet(ctl framework.Controller, g Greeter, visits *VisitCounter, log zerolog.Logger, w http.ResponseWriter, r *http.Request) {
	name := ctl.Request(r).Query("name", "world")
	n := visits.Inc()
	log.Debug().Str("name", name).Int("visits", n).Msg("greet")

	ctl.Response(w).Success(map[string]any{
		"message": g.Greet(name),
		"visits":  n,
	})
}
