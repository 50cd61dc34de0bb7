package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/logx"
	"github.com/Abraxas-365/jobboard/pkg/migration"
	"github.com/spf13/cobra"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logx.Info("Starting Job Board API Server...")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if serveMigrate {
		applied, err := migration.Run(ctx, container.DB, migration.Migrations)
		if err != nil {
			return err
		}
		logx.Infof("Applied %d migrations", len(applied))
	}

	app := newServer(container)

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("Server listening on port %s", cfg.HTTP.Port)
		errCh <- app.Listen(":" + cfg.HTTP.Port)
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
	}

	logx.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(cfg.Ranking.Timeout + 5*time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	logx.Info("Server exited")
	return nil
}
