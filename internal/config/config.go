// Package config loads the optional paperrun YAML configuration file. Every
// field has a compiled-in default; a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/paperrun/paperrun/internal/paper"
	"github.com/paperrun/paperrun/internal/validate"
)

// EnvConfigPath names the environment variable selecting the config file.
const EnvConfigPath = "PAPERRUN_CONFIG"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RateLimit is requests per second allowed on mutating endpoints;
	// RateBurst is the token bucket depth.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// SnapshotConfig holds snapshot persistence settings.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// Config is the full file configuration.
type Config struct {
	Server     ServerConfig        `yaml:"server"`
	Snapshots  SnapshotConfig      `yaml:"snapshots"`
	Session    paper.Config        `yaml:"session"`
	Validation validate.Thresholds `yaml:"validation"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "127.0.0.1",
			Port:      8090,
			RateLimit: 50,
			RateBurst: 100,
		},
		Snapshots: SnapshotConfig{
			Dir: "out/paper",
		},
		Session:    paper.DefaultConfig(),
		Validation: validate.DefaultThresholds(),
	}
}

// Load reads the config file at path, overlaying it onto the defaults. An
// empty path falls back to $PAPERRUN_CONFIG; if that is also unset, or the
// file does not exist, the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
	}
	return cfg, nil
}
