package routing_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/km-arc/go-injector/framework/routing"
	"github.com/km-arc/go-injector/framework/target"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func newRouter() *routing.Router { return routing.New(zerolog.Nop()) }

// getterFunc adapts a function to routing.Getter.
type getterFunc func(t target.Target) (any, error)

func (f getterFunc) Get(t target.Target) (any, error) { return f(t) }

type hello struct{ name string }

func (h *hello) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("hello " + h.name))
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := newRouter()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Put("/users/{id}", okHandler)
	r.Patch("/users/{id}", okHandler)
	r.Delete("/users/{id}", okHandler)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodPut, "/users/1"},
		{http.MethodPatch, "/users/1"},
		{http.MethodDelete, "/users/1"},
	} {
		if rr := do(t, r, tc.method, tc.path); rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d want 200", tc.method, tc.path, rr.Code)
		}
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	r := newRouter()
	r.Get("/hello", okHandler)

	rr := do(t, r, http.MethodGet, "/nope")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown path: got %d want 404", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, `"message":"Not found."`) {
		t.Errorf("unknown path: got body %q, want the JSON envelope", body)
	}
	if rr := do(t, r, http.MethodPost, "/hello"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: got %d want 405", rr.Code)
	}
}

// ── Groups & Prefixes ─────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := newRouter()
	r.Prefix("/admin", func(r *routing.Router) {
		r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(routing.Param(req, "id")))
		})
	})

	rr := do(t, r, http.MethodGet, "/admin/users/7")
	if rr.Code != http.StatusOK || rr.Body.String() != "7" {
		t.Errorf("GET /admin/users/7: got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	r := newRouter()
	r.Group(func(r *routing.Router) {
		r.Middleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				w.Header().Set("X-Group", "yes")
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/inside", okHandler)
	})
	r.Get("/outside", okHandler)

	if got := do(t, r, http.MethodGet, "/inside").Header().Get("X-Group"); got != "yes" {
		t.Errorf("group middleware not applied: %q", got)
	}
	if got := do(t, r, http.MethodGet, "/outside").Header().Get("X-Group"); got != "" {
		t.Errorf("group middleware leaked: %q", got)
	}
}

// ── Resolved handlers ─────────────────────────────────────────────────────────

func TestRouter_ResolvePerRequest(t *testing.T) {
	calls := 0
	g := getterFunc(func(t target.Target) (any, error) {
		calls++
		return &hello{name: t.String()}, nil
	})

	r := newRouter()
	r.Resolve(http.MethodGet, "/", g, target.TypeOf[*hello]())

	rr := do(t, r, http.MethodGet, "/")
	if rr.Body.String() != "hello *routing_test.hello" {
		t.Errorf("body: got %q", rr.Body.String())
	}
	do(t, r, http.MethodGet, "/")
	if calls != 2 {
		t.Errorf("handler should be resolved per request, got %d resolutions", calls)
	}
}

func TestRouter_ResolveFailures(t *testing.T) {
	cases := map[string]getterFunc{
		"error":       func(target.Target) (any, error) { return nil, errors.New("no binding") },
		"not handler": func(target.Target) (any, error) { return 42, nil },
	}
	for name, g := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			r := routing.New(zerolog.New(&buf))
			r.Resolve(http.MethodGet, "/", g, target.TypeOf[*hello]())

			if rr := do(t, r, http.MethodGet, "/"); rr.Code != http.StatusInternalServerError {
				t.Errorf("got %d want 500", rr.Code)
			}
			if !strings.Contains(buf.String(), `"message":"resolve handler"`) {
				t.Errorf("failure not logged: %s", buf.String())
			}
		})
	}
}

// ── Logging & recovery ────────────────────────────────────────────────────────

func TestRouter_RequestLogAndRecover(t *testing.T) {
	var buf bytes.Buffer
	r := routing.New(zerolog.New(&buf))
	r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("boom") })

	if rr := do(t, r, http.MethodGet, "/panic"); rr.Code != http.StatusInternalServerError {
		t.Errorf("panic: got %d want 500", rr.Code)
	}
	for _, want := range []string{`"path":"/panic"`, `"status":500`, `"request_id":`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("request log missing %s: %s", want, buf.String())
		}
	}
}

func TestRouter_Handle(t *testing.T) {
	r := newRouter()
	r.Handle("/raw", http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/raw", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("got %d", rr.Code)
	}
}
