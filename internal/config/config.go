// Package config reads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dshills/callerid-mcp/internal/reputation"
)

// Transport selects how the MCP server is exposed
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// defaultJWTSecret is for local development only
const defaultJWTSecret = "dev-secret-key-change-in-production"

// Config captures server level configuration
type Config struct {
	DBPath     string
	Transport  Transport
	Addr       string
	RedisURL   string // Empty selects the in-process cache
	CacheSize  int
	JWTSecret  string
	TokenTTL   time.Duration
	Token      string // stdio only: identifies the local principal
	SpamPolicy reputation.Policy
}

// FromEnv builds a Config from environment variables so main stays lean
func FromEnv() (Config, error) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		DBPath:    getenv("CALLERID_DB_PATH"),
		Transport: Transport(getenv("CALLERID_TRANSPORT")),
		Addr:      getenv("CALLERID_ADDR"),
		RedisURL:  getenv("CALLERID_REDIS_URL"),
		JWTSecret: getenv("CALLERID_JWT_SECRET"),
		Token:     getenv("CALLERID_TOKEN"),
		CacheSize: 10000,
		TokenTTL:  24 * time.Hour,
	}

	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}

	switch cfg.Transport {
	case "":
		cfg.Transport = TransportStdio
	case TransportStdio, TransportHTTP:
	default:
		return Config{}, fmt.Errorf("unknown transport %q (want stdio or http)", cfg.Transport)
	}

	if raw := getenv("CALLERID_CACHE_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return Config{}, fmt.Errorf("invalid CALLERID_CACHE_SIZE %q", raw)
		}
		cfg.CacheSize = size
	}

	if raw := getenv("CALLERID_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid CALLERID_TOKEN_TTL %q", raw)
		}
		cfg.TokenTTL = ttl
	}

	policy, err := reputation.ParsePolicy(getenv("CALLERID_SPAM_POLICY"))
	if err != nil {
		return Config{}, err
	}
	cfg.SpamPolicy = policy

	return cfg, nil
}

// UsingDefaultSecret reports whether tokens are signed with the development
// secret
func (c Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// DefaultDBPath returns ~/.callerid/callerid.db, falling back to the working
// directory when the home directory is unknown
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "callerid.db"
	}
	return filepath.Join(home, ".callerid", "callerid.db")
}
