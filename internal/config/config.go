package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/games/thegame"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Storage backends for finished game results
const (
	StorageMemory        = "memory"
	StorageSQLite        = "sqlite"
	StoragePostgres      = "postgres"
	StorageElasticsearch = "elasticsearch"
)

// Action history sinks
const (
	HistoryMemory = "memory"
	HistoryRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Game rules
	PlayerID string `env:"THEGAME_PLAYER_ID,default=local"`
	HandSize int    `env:"THEGAME_HAND_SIZE,default=8"`
	MinPlays int    `env:"THEGAME_MIN_PLAYS,default=2"`
	Shuffle  string `env:"THEGAME_SHUFFLE,default=uniform"`
	Seed     int64  `env:"THEGAME_SEED,default=0"`
	LogLevel string `env:"THEGAME_LOG_LEVEL,default=info"`

	// Games with no action for IdleTimeout are abandoned; 0 disables the sweep
	IdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT,default=30m"`
	SweepInterval time.Duration `env:"IDLE_SWEEP_INTERVAL,default=1m"`

	// Result storage
	StorageType string `env:"STORAGE_TYPE,default=memory"`
	DataDir     string `env:"DATA_DIR,default=./data"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Elasticsearch
	ESURL         string `env:"ES_URL,default=http://localhost:9200"`
	ESUsername    string `env:"ES_USERNAME"`
	ESPassword    string `env:"ES_PASSWORD"`
	ESIndexPrefix string `env:"ES_INDEX_PREFIX,default=thegame"`
	// Monthly result indices kept by the pruning task; 0 keeps everything
	ESRetentionMonths int `env:"ES_RETENTION_MONTHS,default=0"`

	// Action history
	HistoryType  string `env:"HISTORY_TYPE,default=memory"`
	RedisAddr    string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisDB      int    `env:"REDIS_DB,default=0"`
	HistoryQueue string `env:"HISTORY_QUEUE,default=thegame_actions"`

	// Environment
	Environment string `env:"ENVIRONMENT,default=development"` // "development" or "production"
}

// Load reads the configuration from a .env file, if present, and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	return FromEnv()
}

// FromEnv decodes and validates the configuration from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("error reading environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.Shuffle = strings.ToLower(strings.TrimSpace(c.Shuffle))
	c.StorageType = strings.ToLower(strings.TrimSpace(c.StorageType))
	c.HistoryType = strings.ToLower(strings.TrimSpace(c.HistoryType))
}

// validate checks that the configuration describes a playable game and a known backend
func (c *Config) validate() error {
	if c.PlayerID == "" {
		return fmt.Errorf("THEGAME_PLAYER_ID must not be empty")
	}
	if c.HandSize < 1 {
		return fmt.Errorf("THEGAME_HAND_SIZE must be at least 1, got %d", c.HandSize)
	}
	if c.MinPlays < 1 {
		return fmt.Errorf("THEGAME_MIN_PLAYS must be at least 1, got %d", c.MinPlays)
	}

	switch entities.ShuffleMode(c.Shuffle) {
	case entities.ShuffleUniform, entities.ShuffleLegacy:
	default:
		return fmt.Errorf("THEGAME_SHUFFLE must be %q or %q, got %q", entities.ShuffleUniform, entities.ShuffleLegacy, c.Shuffle)
	}

	if c.IdleTimeout < 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must not be negative, got %s", c.IdleTimeout)
	}
	if c.IdleTimeout > 0 && c.SweepInterval <= 0 {
		return fmt.Errorf("IDLE_SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.ESRetentionMonths < 0 {
		return fmt.Errorf("ES_RETENTION_MONTHS must not be negative, got %d", c.ESRetentionMonths)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("THEGAME_LOG_LEVEL: %w", err)
	}

	switch c.StorageType {
	case StorageMemory, StorageSQLite, StorageElasticsearch:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}

	switch c.HistoryType {
	case HistoryMemory, HistoryRedis:
	default:
		return fmt.Errorf("unknown HISTORY_TYPE %q", c.HistoryType)
	}

	return nil
}

// Rules returns the game options described by the configuration
func (c *Config) Rules() thegame.Options {
	opts := thegame.Options{
		HandSize: c.HandSize,
		MinPlays: c.MinPlays,
		Shuffle:  entities.ShuffleMode(c.Shuffle),
	}
	if c.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(c.Seed))
	}
	return opts
}

// Level returns the configured log level
func (c *Config) Level() logging.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// SQLitePath returns the database file used by sqlite storage
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "thegame.db")
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
