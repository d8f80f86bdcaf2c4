package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/taigrr/ctf-writeups/internal/logging"
	"github.com/taigrr/ctf-writeups/internal/render"
	"github.com/taigrr/ctf-writeups/internal/site"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the writeups as a website",
		Example: "ctf-writeups serve --addr :8080",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			root, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			service := newService(cfg, root)

			srv, err := site.New(service, render.New(render.Options{Unsafe: cfg.UnsafeHTML}), site.Options{
				Addr:     cfg.Addr,
				CacheTTL: cfg.CacheTTL,
				Logger:   logging.Named(root, logging.Site),
			})
			if err != nil {
				return fmt.Errorf("failed to create site: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config, default :3000)")
	return cmd
}
