package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-injector/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type Mailer interface{ Send(to string) string }

type SMTPMailer struct{ Host string }

func (m *SMTPMailer) Send(to string) string { return m.Host + ":" + to }

type mailProvider struct {
	container.BaseProvider
	registerCalled int
}

func (p *mailProvider) Register(cfg *container.Config) error {
	p.registerCalled++
	if err := cfg.Bind(container.TypeOf[Mailer](), container.TypeOf[*SMTPMailer]()); err != nil {
		return err
	}
	return cfg.Arguments(container.TypeOf[*SMTPMailer](), container.Args{"Host": "smtp"})
}

// bootProvider resolves in Boot what mailProvider registered.
type bootProvider struct {
	sent       string
	bootCalled int
}

func (p *bootProvider) Register(*container.Config) error { return nil }

func (p *bootProvider) Boot(c *container.Container) error {
	p.bootCalled++
	m, err := container.Resolve[Mailer](c)
	if err != nil {
		return err
	}
	p.sent = m.Send("ann")
	return nil
}

type failingProvider struct {
	container.BaseProvider
}

var errProvider = errors.New("provider failed")

func (failingProvider) Register(*container.Config) error { return errProvider }

type failingBoot struct{}

func (failingBoot) Register(*container.Config) error { return nil }
func (failingBoot) Boot(*container.Container) error  { return errProvider }

// ── providers ─────────────────────────────────────────────────────────────────

func TestProviders_RegisterThenBoot(t *testing.T) {
	mail, boot := &mailProvider{}, &bootProvider{}

	c, err := container.New(nil, container.WithProviders(mail, boot))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if mail.registerCalled != 1 {
		t.Errorf("Register() called %d times, want 1", mail.registerCalled)
	}
	if boot.bootCalled != 1 {
		t.Errorf("Boot() called %d times, want 1", boot.bootCalled)
	}
	if boot.sent != "smtp:ann" {
		t.Errorf("Boot() should resolve bindings of other providers, got %q", boot.sent)
	}

	m, err := container.Resolve[Mailer](c)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := m.(*SMTPMailer); !ok {
		t.Errorf("expected *SMTPMailer, got %T", m)
	}
}

func TestProviders_DuplicateRegisteredOnce(t *testing.T) {
	mail := &mailProvider{}
	if _, err := container.New(nil, container.WithProviders(mail, mail), container.WithProviders(mail)); err != nil {
		t.Fatalf("New: %v", err)
	}
	if mail.registerCalled != 1 {
		t.Errorf("duplicate provider should register once, got %d", mail.registerCalled)
	}
}

func TestProviders_RunAfterConfigure(t *testing.T) {
	// the provider's binding overrides the one from configure
	c, err := container.New(func(cfg *container.Config) error {
		return cfg.Bind(container.TypeOf[Mailer](), container.TypeOf[*quietMailer]())
	}, container.WithProviders(&mailProvider{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m := container.MustResolve[Mailer](c); m.Send("bob") != "smtp:bob" {
		t.Errorf("expected the provider binding, got %T", m)
	}
}

type quietMailer struct{}

func (*quietMailer) Send(string) string { return "" }

func TestProviders_ConfigureFunc(t *testing.T) {
	c, err := container.New(nil, container.WithProviders(container.ConfigureFunc(func(cfg *container.Config) error {
		return cfg.Bind(container.TypeOf[Mailer](), container.TypeOf[*quietMailer]())
	})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := container.Resolve[Mailer](c); err != nil {
		t.Errorf("ConfigureFunc binding not applied: %v", err)
	}
}

func TestProviders_RegisterError(t *testing.T) {
	_, err := container.New(nil, container.WithProviders(failingProvider{}))
	if !errors.Is(err, errProvider) {
		t.Errorf("expected provider error, got %v", err)
	}
}

func TestProviders_BootError(t *testing.T) {
	_, err := container.New(nil, container.WithProviders(failingBoot{}))
	if !errors.Is(err, errProvider) {
		t.Errorf("expected boot error, got %v", err)
	}
}

func TestProviders_BootSeesDependencies(t *testing.T) {
	dep := &Dependency{ID: 9}
	var got *Dependency
	boot := &dependencyBoot{got: &got}

	_, err := container.New(func(cfg *container.Config) error {
		return cfg.Dependency(container.TypeOf[*Dependency]())
	}, container.WithDependencies(dep), container.WithProviders(boot))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got != dep {
		t.Error("Boot() should see supplied dependencies")
	}
}

type dependencyBoot struct {
	container.BaseProvider
	got **Dependency
}

func (p *dependencyBoot) Register(*container.Config) error { return nil }

func (p *dependencyBoot) Boot(c *container.Container) error {
	d, err := container.Resolve[*Dependency](c)
	*p.got = d
	return err
}
