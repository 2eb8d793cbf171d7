package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	composer "github.com/goliatone/go-page-composer"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var fixturesDir string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the composition HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := root.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			module, err := composer.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer module.Close(context.Background())

			if fixturesDir != "" {
				result, err := importFixtures(ctx, module, fixturesDir)
				if err != nil {
					return err
				}
				cmd.Printf("imported %d sections and %d pages\n", len(result.Sections), len(result.Pages))
			}

			app := module.HTTPApp()
			errCh := make(chan error, 1)
			go func() {
				errCh <- app.Listen(cfg.HTTP.Addr)
			}()
			cmd.Printf("listening on %s\n", cfg.HTTP.Addr)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&fixturesDir, "fixtures", "", "Import definition fixtures from this directory before serving")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http.addr)")
	return cmd
}
