package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"pizzeria/internal/infra/db"
	"pizzeria/internal/logger"
	"pizzeria/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var noMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if !noMigrate {
			if err := db.Migrate(a.db); err != nil {
				return err
			}
		}

		e := server.New(a.cfg, a.handlers, a.auth)
		addr := ":" + a.cfg.Port

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.L.Info("http server listening", "addr", addr, "env", a.cfg.GoEnv)
			return server.Run(gctx, e, addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.L.Info("shutting down")
			return nil
		})
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&noMigrate, "no-migrate", false, "skip AutoMigrate on startup")
}
