package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	composer "github.com/goliatone/go-page-composer"
)

type rootOptions struct {
	configPath string
	envFiles   []string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "composer",
		Short:         "Assemble pages out of independently resolved sections",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env", []string{".env"}, "dotenv files applied over the configuration")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newServeCmd(opts),
		newImportCmd(opts),
		newComposeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (composer.Config, error) {
	cfg, err := composer.LoadConfig(o.configPath, o.envFiles...)
	if err != nil {
		return cfg, err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func (o *rootOptions) module(ctx context.Context) (*composer.Module, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	return composer.New(ctx, cfg)
}

func importFixtures(ctx context.Context, module *composer.Module, dir string) (*composer.ImportResult, error) {
	return module.Import(ctx, os.DirFS(dir), ".")
}
