// Command injectdemo serves a small greeting application wired by the
// container.
//
//	injectdemo serve --port 8080
//	injectdemo greet admin ann
//	injectdemo config --default-lifetime singleton
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-injector/framework/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "injectdemo:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "injectdemo",
		Short:         "Greeting service built on the go-injector container",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	load := func(cmd *cobra.Command) (*config.Config, error) {
		return config.LoadFlags(cmd.Flags(), envFile)
	}

	rootCmd.AddCommand(
		serveCommand(load),
		greetCommand(load),
		configCommand(load),
	)
	return rootCmd
}
