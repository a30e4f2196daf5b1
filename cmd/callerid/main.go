package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/callerid-mcp/internal/config"
	"github.com/dshills/callerid-mcp/internal/mcp"
	"github.com/dshills/callerid-mcp/internal/storage"
	"github.com/dshills/callerid-mcp/pkg/logging"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("Caller-ID MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Logs go to stderr; stdout is reserved for the stdio transport
	logging.Setup()

	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsingDefaultSecret() {
		slog.Warn("CALLERID_JWT_SECRET not set; using the development secret")
	}

	slog.Info("caller-ID MCP server starting",
		"version", version,
		"build_mode", storage.BuildMode,
		"driver", storage.DriverName,
		"transport", cfg.Transport,
		"db", cfg.DBPath,
		"policy", cfg.SpamPolicy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := mcp.NewServer(ctx, cfg)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}

	if err := server.Serve(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
