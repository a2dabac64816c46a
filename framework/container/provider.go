package container

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related configuration.
//
// Register runs while the container is being configured and may only touch
// the Config. Boot runs after every provider registered and every declared
// dependency was supplied, so it is safe to resolve anything there.
//
//	type CacheProvider struct{ container.BaseProvider }
//
//	func (p *CacheProvider) Register(cfg *container.Config) error {
//	    if err := cfg.Bind(container.TypeOf[Cache](), container.TypeOf[*RedisCache]()); err != nil {
//	        return err
//	    }
//	    return cfg.Singleton(container.TypeOf[Cache]())
//	}
//
//	func (p *CacheProvider) Boot(c *container.Container) error {
//	    cache, err := container.Resolve[Cache](c)
//	    if err != nil {
//	        return err
//	    }
//	    return cache.Ping()
//	}
type ServiceProvider interface {
	// Register adds configuration. Do NOT resolve anything here.
	Register(cfg *Config) error

	// Boot is called once the container is complete.
	Boot(c *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(cfg *container.Config) error { ... }
type BaseProvider struct{}

func (BaseProvider) Boot(*Container) error { return nil }

// ConfigureFunc adapts a plain configure function to a ServiceProvider.
type ConfigureFunc func(cfg *Config) error

func (f ConfigureFunc) Register(cfg *Config) error { return f(cfg) }
func (f ConfigureFunc) Boot(*Container) error      { return nil }

// ── providerSet ───────────────────────────────────────────────────────────────

// providerSet runs Register and Boot of each provider once, in the order the
// providers were first given.
type providerSet struct {
	list []ServiceProvider
}

func newProviderSet(providers []ServiceProvider) *providerSet {
	s := &providerSet{}
	seen := make(map[ServiceProvider]bool, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		if reflect.TypeOf(p).Comparable() {
			if seen[p] {
				continue
			}
			seen[p] = true
		}
		s.list = append(s.list, p)
	}
	return s
}

func (s *providerSet) register(cfg *Config, log zerolog.Logger) error {
	for _, p := range s.list {
		log.Debug().Str("provider", providerName(p)).Msg("register")
		if err := p.Register(cfg); err != nil {
			return errors.WithMessagef(err, "container: register %s", providerName(p))
		}
	}
	return nil
}

func (s *providerSet) boot(c *Container, log zerolog.Logger) error {
	for _, p := range s.list {
		log.Debug().Str("provider", providerName(p)).Msg("boot")
		if err := p.Boot(c); err != nil {
			return errors.WithMessagef(err, "container: boot %s", providerName(p))
		}
	}
	return nil
}

func providerName(p ServiceProvider) string { return fmt.Sprintf("%T", p) }
