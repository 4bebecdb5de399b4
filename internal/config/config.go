// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Calibration persistence backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory event queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of event workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the event id set; the oldest ids are forgotten first.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SeasonGames is the schedule length WAR is scaled to.
	SeasonGames int `koanf:"season_games"`

	CalibrationBlendWeight float64 `koanf:"calibration_blend_weight"`
	CalibrationMinPA       int     `koanf:"calibration_min_pa"`

	// CalibrationBackend is one of file, sqlite or memory.
	CalibrationBackend string `koanf:"calibration_backend"`

	// DataDir holds file-backend state and the master key.
	DataDir string `koanf:"data_dir"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// MasterKey is the passphrase protecting file-backend data. Empty stores plaintext.
	MasterKey string `koanf:"master_key"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		EventQueueSize:         100_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             500_000,
		MaxLeaderboardLimit:    100,
		SeasonGames:            162,
		CalibrationBlendWeight: 0.7,
		CalibrationMinPA:       10_000,
		CalibrationBackend:     BackendFile,
		DataDir:                "./data",
		SQLitePath:             "./data/sabr.db",
		CORSAllowedOrigins:     []string{"*"},
		ShutdownTimeout:        30 * time.Second,
	}
}

// Validate checks ranges and enumerations. Every failure wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	if c.Addr == "" {
		problems = append(problems, "addr must not be empty")
	}
	if c.EventQueueSize <= 0 {
		problems = append(problems, "queue_size must be positive")
	}
	if c.WorkerCount <= 0 {
		problems = append(problems, "worker_count must be positive")
	}
	if c.DedupeSize < 0 {
		problems = append(problems, "dedupe_size must not be negative")
	}
	if c.MaxLeaderboardLimit <= 0 {
		problems = append(problems, "max_leaderboard_limit must be positive")
	}
	if c.SeasonGames <= 0 {
		problems = append(problems, "season_games must be positive")
	}
	if c.CalibrationBlendWeight < 0 || c.CalibrationBlendWeight > 1 {
		problems = append(problems, "calibration_blend_weight must be within [0,1]")
	}
	if c.CalibrationMinPA <= 0 {
		problems = append(problems, "calibration_min_pa must be positive")
	}
	switch c.CalibrationBackend {
	case BackendFile:
		if c.DataDir == "" {
			problems = append(problems, "data_dir is required for the file backend")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "sqlite_path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("unknown calibration_backend %q", c.CalibrationBackend))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_format %q", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, "shutdown_timeout must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
