package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, logger, app.Options{Migrate: cfg.Database.RunMigrations, WithCache: true})
	if err != nil {
		_ = logger.Sync()
		return err
	}
	defer a.Close()
	defer a.Logger.Sync() //nolint:errcheck

	server := httptransport.NewServer(a)
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http listening", zap.String("addr", a.Config.App.Addr()))
		errCh <- server.Listen(a.Config.App.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.Logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}
