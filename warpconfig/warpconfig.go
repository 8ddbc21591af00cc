// Package warpconfig is Warp's YAML-backed configuration: a small
// plain struct with yaml tags, loaded once at startup, no dynamic
// reloading.
package warpconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BackendConfig names one warehouse connection.
type BackendConfig struct {
	Name   string `yaml:"name"`
	Driver string `yaml:"driver"` // "mysql", "postgres", "sqlite", "mssql", "cockroach"
	DSN    string `yaml:"dsn"`
}

// JobConfig bounds how a Job behaves by default.
type JobConfig struct {
	// MaxConcurrency caps wavefront/map-phase concurrency; zero means
	// runtime.NumCPU.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// Config is Warp's top-level configuration document.
type Config struct {
	Backends []BackendConfig `yaml:"backends"`
	Job      JobConfig       `yaml:"job"`
	LogLevel string          `yaml:"log_level"`
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("warpconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("warpconfig: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Backend looks up a named backend, or returns false.
func (c *Config) Backend(name string) (BackendConfig, bool) {
	for _, b := range c.Backends {
		if b.Name == name {
			return b, true
		}
	}
	return BackendConfig{}, false
}
