package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/gomeshelf/internal/app"
	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(parent context.Context, c *commandContext) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Load configuration
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	// 2. Take the single-instance lock
	lock, err := c.lock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	// 3. Wire logger, database, catalogs, controllers and server
	a, cleanup, err := app.Initialize(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	logger := a.Logger
	logger.Info("Starting Gomeshelf")
	logger.WithField("config_dir", cfg.ConfigDir).Info("Configuration loaded")

	// 4. Apply schema migrations
	if err := a.DB.Migrate(parent); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database initialized")

	// 5. Start HTTP server
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := a.Server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 6. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("Gomeshelf is running")

	select {
	case err := <-serverErrChan:
		return err
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := a.Server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	case <-parent.Done():
		logger.Info("Context cancelled")
		if err := a.Server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Gomeshelf stopped")
	return nil
}
