// Package daemon manages the lingo daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Profile   ProfileConfig   `toml:"profile"`
	Economy   EconomyConfig   `toml:"economy"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// ProfileConfig selects the learner profile and its background cadence.
type ProfileConfig struct {
	Key                 string `toml:"key"`
	RecoveryTick        string `toml:"recovery_tick"`
	HealthCheckInterval string `toml:"health_check_interval"`
	RNGSeed             int64  `toml:"rng_seed"` // 0 = seed from clock
}

// EconomyConfig points at an economy tuning override.
type EconomyConfig struct {
	TuningFile string `toml:"tuning_file"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := lingoHome()
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        7878,
			CORSOrigins: []string{"*"},
		},
		Profile: ProfileConfig{
			Key:                 "default",
			RecoveryTick:        "5s",
			HealthCheckInterval: "60s",
		},
		Logging: LoggingConfig{
			Level:     "info",
			File:      filepath.Join(homeDir, "lingo.log"),
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// RecoveryTickDuration returns the parsed recovery tick, 5s on error.
func (c ProfileConfig) RecoveryTickDuration() time.Duration {
	return parseDuration(c.RecoveryTick, 5*time.Second)
}

// HealthInterval returns the parsed health check period, 60s on error.
func (c ProfileConfig) HealthInterval() time.Duration {
	return parseDuration(c.HealthCheckInterval, 60*time.Second)
}

// LoadConfig reads config from $LINGO_HOME/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	return LoadConfigFrom(filepath.Join(lingoHome(), "config.toml"))
}

// LoadConfigFrom reads config from path, falling back to defaults when the
// file does not exist.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet, use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Profile.Key == "" {
		cfg.Profile.Key = "default"
	}
	return cfg, nil
}

// SaveConfig writes the config to $LINGO_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(lingoHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// lingoHome returns the lingo data directory.
func lingoHome() string {
	if env := os.Getenv("LINGO_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lingo")
}

// LingoHome is exported for use by other packages.
func LingoHome() string {
	return lingoHome()
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
