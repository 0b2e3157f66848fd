// Package config provides configuration loading, validation, and hot
// reload.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names. Env values override the config file, which
// makes container deployments work without one.
const (
	EnvServerHost  = "TRACEDOC_SERVER_HOST"
	EnvServerPort  = "TRACEDOC_SERVER_PORT"
	EnvDocsTitle   = "TRACEDOC_DOCS_TITLE"
	EnvDocsVersion = "TRACEDOC_DOCS_VERSION"
	EnvServerURL   = "TRACEDOC_DOCS_SERVER_URL"
	EnvLogLevel    = "TRACEDOC_LOG_LEVEL"
	EnvLogFormat   = "TRACEDOC_LOG_FORMAT"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Docs    DocsConfig    `yaml:"docs"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DocsConfig configures the generated OpenAPI document.
type DocsConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
	ServerURL   string `yaml:"server_url"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Docs: DocsConfig{
			Title:   "Tracedoc Demo API",
			Version: "1.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads path, applies env overrides, and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithFallback loads the file when it exists and falls back to defaults
// plus env overrides otherwise.
func LoadWithFallback(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Logging.Format)
	}
	if c.Docs.Title == "" {
		return fmt.Errorf("config: docs title must not be empty")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("config: metrics enabled without a path")
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerHost); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv(EnvDocsTitle); v != "" {
		c.Docs.Title = v
	}
	if v := os.Getenv(EnvDocsVersion); v != "" {
		c.Docs.Version = v
	}
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Docs.ServerURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
