package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/km-arc/go-injector/app"
	framework "github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
)

type loader func(cmd *cobra.Command) (*config.Config, error)

// bootstrap loads the configuration, builds the logger and the application
// and mounts the routes.
func bootstrap(cmd *cobra.Command, load loader) (*framework.Application, error) {
	cfg, err := load(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	a, err := framework.New(cfg, log, nil, &app.AppServiceProvider{Log: log})
	if err != nil {
		return nil, err
	}
	if err := app.Routes(a); err != nil {
		return nil, err
	}
	return a, nil
}

func serveCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the greeting application over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd, load)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Run(ctx)
		},
	}
}

func greetCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:       "greet <home|admin> [name]",
		Short:     "Resolve a controller's greeter and print its greeting",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"home", "admin"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, load)
			if err != nil {
				return err
			}
			name := "world"
			if len(args) == 2 {
				name = args[1]
			}
			g, err := greeterOf(a, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), g.Greet(name))
			return err
		},
	}
}

func greeterOf(a *framework.Application, consumer string) (app.Greeter, error) {
	switch consumer {
	case "home":
		v, err := a.Get(container.TypeOf[*app.HomeController]())
		if err != nil {
			return nil, err
		}
		return v.(*app.HomeController).Greeter, nil
	case "admin":
		v, err := a.Get(container.TypeOf[*app.AdminController]())
		if err != nil {
			return nil, err
		}
		return v.(*app.AdminController).Greeter, nil
	}
	return nil, errors.Errorf("unknown consumer %q, want home or admin", consumer)
}

func configCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), cfg)
		},
	}
}

func writeYAML(w io.Writer, cfg *config.Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	_, err = w.Write(out)
	return err
}
