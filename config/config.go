// Package config provides configuration loading for the kavach commands.
// Configuration is read once at process start and not modified afterwards.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the hosted analysis backend.
const DefaultEndpoint = "https://kavach-vani-backend.onrender.com/analyze"

// Config represents the complete kavach configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// BackendConfig configures the analysis backend.
type BackendConfig struct {
	// Endpoint is the URL analysis requests are posted to.
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds a single analysis request (default: 30s).
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the web console.
type ServerConfig struct {
	// Addr is the listen address (default: ":8501").
	Addr string `yaml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string `yaml:"level"`
	// Format is text or json (default: text).
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  30 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8501",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Fields missing from
// the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Backend.Endpoint == "" {
		return fmt.Errorf("backend.endpoint is required")
	}
	u, err := url.Parse(c.Backend.Endpoint)
	if err != nil {
		return fmt.Errorf("backend.endpoint is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.endpoint must be an http or https URL")
	}
	if u.Host == "" {
		return fmt.Errorf("backend.endpoint must include a host")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level is invalid: %w", err)
	}
	return level, nil
}
