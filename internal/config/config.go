// Package config loads the server settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = "8050"
	DefaultLogLevel     = "info"
	DefaultUploadMemory = 32 << 20 // 32MB held in memory, the rest spills to disk
	DefaultSessionTTL   = 2 * time.Hour
)

// Config holds every tunable of the server.
type Config struct {
	Port         string            `yaml:"port"`
	LogLevel     string            `yaml:"log_level"`
	UploadMemory int64             `yaml:"upload_memory"`
	SessionTTL   time.Duration     `yaml:"session_ttl"`
	DisplayNames map[string]string `yaml:"display_names"`
	// Series restricts the charted columns of a sheet. Sheets not listed
	// chart every signal column.
	Series map[string][]string `yaml:"series"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:         DefaultPort,
		LogLevel:     DefaultLogLevel,
		UploadMemory: DefaultUploadMemory,
		SessionTTL:   DefaultSessionTTL,
	}
}

// Load reads the optional YAML file at path and then the environment.
// Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && strings.TrimSpace(v) != "" {
		c.Port = strings.TrimSpace(v)
	}
	if v, ok := lookup("SIGNALMAP_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup("SIGNALMAP_UPLOAD_MEMORY"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SIGNALMAP_UPLOAD_MEMORY: %w", err)
		}
		c.UploadMemory = n
	}
	if v, ok := lookup("SIGNALMAP_SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SIGNALMAP_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	return nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if _, err := strconv.ParseUint(strings.TrimPrefix(c.Port, ":"), 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.UploadMemory <= 0 {
		return fmt.Errorf("upload memory must be positive, got %d", c.UploadMemory)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session ttl must not be negative, got %s", c.SessionTTL)
	}
	return nil
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
