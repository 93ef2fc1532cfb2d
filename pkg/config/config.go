package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	Backend  string `yaml:"backend"`
	DataFile string `yaml:"data_file"`
}

// LoadConfig loads configuration from a YAML file if path is provided,
// otherwise it falls back to environment variables. Environment
// variables override file values; every field has a default so the
// server can start with no configuration at all.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			// If path was explicitly provided but the file can't be
			// read, return an error rather than silently defaulting.
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	// Set defaults if not provided
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if cfg.DataFile == "" {
		cfg.DataFile = "jsonkv.db"
	}

	if cfg.Backend != BackendMemory && cfg.Backend != BackendBolt {
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, BackendMemory, BackendBolt)
	}

	return &cfg, nil
}

// applyEnvOverrides allows environment variables to override YAML
// config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("KV_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("KV_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
}
