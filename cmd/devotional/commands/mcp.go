// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents browse verses, follow plans, and journal via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/devotional/internal/app"
	"github.com/harper/devotional/internal/logging"
	"github.com/harper/devotional/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the devotional engine as an MCP (Model Context Protocol) server,
enabling LLM agents like Claude to recommend verses, follow reading
plans, and keep the journal via stdio.

Logs go to stderr so stdout stays reserved for the protocol.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  devotional mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "devotional": {
  #       "command": "devotional",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	logger, err := logging.New(os.Stderr, level, cfg.LogJSON)
	if err != nil {
		return err
	}
	logger = logger.WithPrefix("mcp")

	a, err := app.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	server := mcpserver.NewMCPServer("Devotional", versionInfo.Version)
	mcp.RegisterTools(server, a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio", "store", cfg.Store, "rephrase", cfg.RephraseEnabled())

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	if c, ok := a.Charm(); ok && cfg.AutoSync {
		if err := c.Sync(); err != nil {
			logger.Warn("final sync failed", "err", err)
		}
	}
	if err := a.Close(); err != nil {
		logger.Warn("error closing storage", "err", err)
	}
	logger.Debug("shutdown complete")
	return runErr
}
