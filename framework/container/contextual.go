package container

import "github.com/pkg/errors"

// ContextualBuilder is the fluent form of configuration scoped with Where.
//
//	cfg.When(container.TypeOf[*PhotoController]()).
//	    Needs(container.TypeOf[Filesystem]()).
//	    Give(container.TypeOf[*S3Filesystem]())
//
// is the same as
//
//	cfg.Bind(container.TypeOf[Filesystem](), container.TypeOf[*S3Filesystem](),
//	    container.Where(container.TypeOf[*PhotoController]()))
type ContextualBuilder struct {
	cfg      *Config
	consumer Target
	needs    Target
}

// When starts a configuration that only applies while building consumer.
func (cfg *Config) When(consumer Target) *ContextualBuilder {
	return &ContextualBuilder{cfg: cfg, consumer: consumer}
}

// Needs names the dependency being configured.
func (b *ContextualBuilder) Needs(t Target) *ContextualBuilder {
	b.needs = t
	return b
}

func (b *ContextualBuilder) check() error {
	if b.consumer == nil {
		return errors.New("container: When called with a nil consumer")
	}
	if b.needs == nil {
		return errors.Errorf("container: When(%s) without Needs", b.consumer)
	}
	return nil
}

// Give binds the dependency to another target.
func (b *ContextualBuilder) Give(to Target, opts ...EntryOption) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.cfg.Bind(b.needs, to, append(opts, Where(b.consumer))...)
}

// GiveValue hands the consumer v itself.
func (b *ContextualBuilder) GiveValue(v any) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.cfg.Instance(b.needs, v, Where(b.consumer))
}

// GiveArgs fixes constructor arguments of the dependency.
func (b *ContextualBuilder) GiveArgs(args Args) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.cfg.Arguments(b.needs, args, Where(b.consumer))
}

// GiveLifetime sets the lifetime of the dependency. A singleton declared this
// way is shared by the consumer only.
func (b *ContextualBuilder) GiveLifetime(l Lifetime) error {
	if err := b.check(); err != nil {
		return err
	}
	return b.cfg.Lifetime(b.needs, l, Where(b.consumer))
}
