package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/callerid-mcp/internal/auth"
	"github.com/dshills/callerid-mcp/internal/cache"
	"github.com/dshills/callerid-mcp/internal/config"
	"github.com/dshills/callerid-mcp/internal/reputation"
	"github.com/dshills/callerid-mcp/internal/searcher"
	"github.com/dshills/callerid-mcp/internal/storage"
	"github.com/dshills/callerid-mcp/internal/visibility"
)

const (
	// ServerName is the MCP server name
	ServerName = "callerid-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp        *server.MCPServer
	cfg        config.Config
	storage    storage.Storage
	cache      cache.Cache
	searcher   *searcher.Searcher
	reputation *reputation.Service
	jwt        *auth.JWTManager
}

// NewServer opens the record store and cache named by cfg and wires the
// search core behind the MCP tools
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	c, err := openCache(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	scorer := reputation.NewScorer(store, c, reputation.WithPolicy(cfg.SpamPolicy))

	s := &Server{
		mcp:        server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		cfg:        cfg,
		storage:    store,
		cache:      c,
		searcher:   searcher.NewSearcher(store, scorer, visibility.NewGate(store), c),
		reputation: reputation.NewService(store, scorer),
		jwt:        auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	}

	s.registerTools()

	return s, nil
}

// openCache selects Redis when a URL is configured and the in-process LRU
// otherwise
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if cfg.RedisURL != "" {
		c, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		slog.Info("using redis cache")
		return c, nil
	}

	c, err := cache.NewLRU(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	slog.Info("using in-process cache", "size", cfg.CacheSize)
	return c, nil
}

// Serve runs the configured transport and blocks until ctx is cancelled or
// the transport fails
func (s *Server) Serve(ctx context.Context) error {
	defer s.Close()

	if s.cfg.Transport == config.TransportHTTP {
		return s.serveHTTP(ctx)
	}
	return s.serveStdio()
}

// serveStdio identifies the single local principal from the configured
// token for every request
func (s *Server) serveStdio() error {
	if s.cfg.Token == "" {
		slog.Warn("no CALLERID_TOKEN set; every tool call will be rejected as unauthenticated")
	}
	return server.ServeStdio(s.mcp, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return s.jwt.ContextWithToken(ctx, s.cfg.Token)
	}))
}

// Close releases the cache and the record store
func (s *Server) Close() {
	if err := s.cache.Close(); err != nil {
		slog.Warn("failed to close cache", "error", err)
	}
	if err := s.storage.Close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchByNameTool(), s.handleSearchByName)
	s.mcp.AddTool(searchByPhoneTool(), s.handleSearchByPhone)
	s.mcp.AddTool(reportSpamTool(), s.handleReportSpam)
	s.mcp.AddTool(retractSpamReportTool(), s.handleRetractSpamReport)
	s.mcp.AddTool(getSpamStatusTool(), s.handleGetSpamStatus)
	s.mcp.AddTool(getSpamStatisticsTool(), s.handleGetSpamStatistics)
}
