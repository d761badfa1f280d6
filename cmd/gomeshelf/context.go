package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amaumene/gomeshelf/internal/app"
	"github.com/amaumene/gomeshelf/internal/config"
	"github.com/gofrs/flock"
)

var errAlreadyRunning = errors.New("another gomeshelf process holds the data directory lock")

type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error

	// overridable in tests
	loadConfig func() (*config.Config, error)
}

func newCommandContext() *commandContext {
	return &commandContext{loadConfig: config.Load}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := c.loadConfig()
		if err != nil {
			c.configErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withApp wires the application, applies migrations and hands it to fn
func (c *commandContext) withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	a, cleanup, err := app.Initialize(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.DB.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return fn(a)
}

// lock takes the single-instance lock on the data directory
func (c *commandContext) lock() (*flock.Flock, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	lock := flock.New(cfg.LockFile)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", errAlreadyRunning, cfg.LockFile)
	}
	return lock, nil
}
