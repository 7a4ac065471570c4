package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Transport modes accepted by MCP_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config holds all application configuration.
type Config struct {
	Sandbox   SandboxConfig
	Transport TransportConfig
	Planner   PlannerConfig
	Dispatch  DispatchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// SandboxConfig holds the confinement root.
type SandboxConfig struct {
	Root string `envconfig:"FS_ROOT"`
}

// TransportConfig selects how clients reach the server.
type TransportConfig struct {
	Mode           string `envconfig:"MCP_TRANSPORT" default:"stdio"`
	Host           string `envconfig:"MCP_HOST" default:"0.0.0.0"`
	Port           string `envconfig:"MCP_PORT" default:"8000"`
	MaxConnections int    `envconfig:"MCP_MAX_CONNECTIONS" default:"256"`
}

// PlannerConfig holds language model settings.
type PlannerConfig struct {
	APIKey            string        `envconfig:"GOOGLE_API_KEY"`
	Model             string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	Temperature       float64       `envconfig:"GEMINI_TEMPERATURE" default:"0.3"`
	BaseURL           string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Timeout           time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
	MaxRetries        int           `envconfig:"GEMINI_MAX_RETRIES" default:"3"`
	RequestsPerSecond float64       `envconfig:"GEMINI_RPS" default:"2"`
}

// DispatchConfig bounds action execution.
type DispatchConfig struct {
	Timeout       time.Duration `envconfig:"ACTION_TIMEOUT" default:"60s"`
	MaxConcurrent int64         `envconfig:"ACTION_MAX_CONCURRENT" default:"16"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	Output      string `envconfig:"LOG_OUTPUT" default:"stderr"`
}

// RateLimitConfig guards the HTTP surfaces.
type RateLimitConfig struct {
	RequestsPerSecond int      `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int      `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool     `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	CORSOrigins       []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Transport: TransportConfig{
			Mode:           TransportStdio,
			Host:           "0.0.0.0",
			Port:           "8000",
			MaxConnections: 256,
		},
		Planner: PlannerConfig{
			Model:             "gemini-1.5-flash",
			Temperature:       0.3,
			BaseURL:           "https://generativelanguage.googleapis.com",
			Timeout:           30 * time.Second,
			MaxRetries:        3,
			RequestsPerSecond: 2,
		},
		Dispatch: DispatchConfig{
			Timeout:       60 * time.Second,
			MaxConcurrent: 16,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			Output:      "stderr",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			CORSOrigins:       []string{"*"},
		},
	}
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch c.Transport.Mode {
	case TransportStdio, TransportSSE, TransportHTTP:
	default:
		return fmt.Errorf("unsupported MCP_TRANSPORT %q (want stdio, sse or http)", c.Transport.Mode)
	}
	if c.Dispatch.MaxConcurrent < 1 {
		return fmt.Errorf("ACTION_MAX_CONCURRENT must be positive, got %d", c.Dispatch.MaxConcurrent)
	}
	return nil
}

// RootDir returns the configured sandbox root, falling back to the working directory.
func (c *Config) RootDir() (string, error) {
	root := c.Sandbox.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	return filepath.Abs(root)
}

// Addr returns the listen address for network transports.
func (c *Config) Addr() string {
	return c.Transport.Host + ":" + c.Transport.Port
}
