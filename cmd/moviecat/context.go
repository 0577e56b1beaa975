package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"moviecat/internal/api"
	"moviecat/internal/catalog"
	"moviecat/internal/config"
	"moviecat/internal/logging"
	"moviecat/internal/services"
	"moviecat/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce   sync.Once
	config       *config.Config
	configErr    error
	configSource string
	configExists bool
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, source, exists, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configSource = source
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// cliLogger logs warnings and errors to stderr for one-shot commands. Debug
// configuration is honoured so translator diagnostics can be inspected.
func (c *commandContext) cliLogger() *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	level := "warn"
	if strings.EqualFold(cfg.Logging.Level, "debug") {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format, OutputPaths: []string{"stderr"}})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// openStore takes the catalog lock for commands that change data.
func (c *commandContext) openStore(logger *slog.Logger) (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Paths.DataFile, store.WithLogger(logger))
	if errors.Is(err, store.ErrLocked) {
		return nil, fmt.Errorf("%w; is `moviecat serve` running? use the HTTP API at %s instead", err, cfg.API.Bind)
	}
	return st, err
}

// readOnlyService serves list and get from a point-in-time read of the
// catalog without taking the lock.
func (c *commandContext) readOnlyService() (*api.CatalogService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	state, _, err := store.Load(cfg.Paths.DataFile)
	if err != nil {
		return nil, err
	}
	return api.NewCatalogService(snapshotStore(state.Movies), logging.NewNop()), nil
}

type snapshotStore []catalog.Movie

func (s snapshotStore) Snapshot() []catalog.Movie { return s }

func (s snapshotStore) Mutate(context.Context, store.MutateFunc) error {
	return services.Wrap(services.ErrPersistence, "cli", "mutate", "catalog opened read-only", nil)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
