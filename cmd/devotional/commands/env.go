// ABOUTME: Opens the configured App for a command run
// ABOUTME: Loads .env, reads config, and builds a logger honoring --verbose and --quiet
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/config"
	"github.com/harper/devotional/internal/logging"
)

// loadConfig loads .env (if present) and the environment configuration
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, error) {
	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	return logging.New(cmd.ErrOrStderr(), level, cfg.LogJSON)
}

// openApp builds the App for a command. Callers must Close it.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return a, nil
}

// withApp opens the App, runs fn, and closes the App
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			a.Logger.Warn("error closing storage", "err", cerr)
		}
	}()
	return friendlyError(fn(a))
}
