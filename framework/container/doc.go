// Package container provides a reflection-driven dependency injection
// container with contextual configuration and service providers.
//
// # Overview
//
// The container builds values by reading constructors from types. A struct
// target is built by resolving each exported field; a factory target (see
// target.NewFunc) is built by resolving each parameter and calling it.
// Interfaces need a binding. A handful of primitive types resolve to an empty
// value.
//
// All configuration happens up front, in the function passed to New and in
// service providers. The returned Container is read-only apart from the
// singletons it caches.
//
// # Container Lifecycle
//
//  1. Configure: the configure function passed to New
//  2. Register providers: every ServiceProvider.Register, in order
//  3. Supply dependencies: WithDependencies instances matched to Config.Dependency
//  4. Boot: every ServiceProvider.Boot, safe to resolve everything
//  5. Serve requests with Get, Resolve and Call
//
// # Bindings
//
//	// Interface to implementation
//	cfg.Bind(container.TypeOf[Cache](), container.TypeOf[*RedisCache]())
//
//	// Singleton, created once and reused
//	cfg.Singleton(container.TypeOf[Cache]())
//
//	// Pre-built value
//	cfg.Instance(container.TypeOf[*Settings](), settings)
//
//	// Factory for a return type
//	cfg.Callable(target.MustFunc(NewRedisCache, "addr"))
//
// # Resolving
//
//	// Untyped
//	raw, err := c.Get(container.TypeOf[Cache]())
//
//	// Generic (preferred, no type assertion required)
//	cache, err := container.Resolve[Cache](c)
//
// # Contextual Configuration
//
// Every configuration call accepts Where(consumer), which limits it to the
// dependencies of consumer. The context of a dependency is the concrete target
// whose constructor asked for it.
//
//	cfg.When(container.TypeOf[*PhotoController]()).
//	    Needs(container.TypeOf[Filesystem]()).
//	    Give(container.TypeOf[*S3Filesystem]())
//
//	cfg.Arguments(container.TypeOf[*Pool](), container.Args{"Size": 2},
//	    container.Where(container.TypeOf[*Worker]()))
//
// A singleton declared with Where is cached for that consumer alone; one
// declared globally is shared by everyone.
//
// # Arguments
//
//	cfg.Arguments(container.TypeOf[*Pool](), container.Args{"Size": 8})
//	cfg.ArgFactory(container.TypeOf[*Pool](), map[string]container.Target{
//	    "Log": target.MustFunc(newPoolLogger),
//	})
//
// Struct fields tagged `inject:"-"` are left at their zero value. A tag
// `inject:"name"` renames the parameter.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(cfg *container.Config) error {
//	    return cfg.Bind(container.TypeOf[Mailer](), container.TypeOf[*SMTPMailer]())
//	}
//
//	c, err := container.New(nil, container.WithProviders(&AppServiceProvider{}))
package container
