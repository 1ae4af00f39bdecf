package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

var configVars = []string{
	"THEGAME_PLAYER_ID", "THEGAME_HAND_SIZE", "THEGAME_MIN_PLAYS", "THEGAME_SHUFFLE",
	"THEGAME_SEED", "THEGAME_LOG_LEVEL", "STORAGE_TYPE", "DATA_DIR", "DATABASE_URL",
	"SESSION_IDLE_TIMEOUT", "IDLE_SWEEP_INTERVAL",
	"ES_URL", "ES_USERNAME", "ES_PASSWORD", "ES_INDEX_PREFIX", "ES_RETENTION_MONTHS",
	"HISTORY_TYPE", "REDIS_ADDR", "REDIS_DB", "HISTORY_QUEUE", "ENVIRONMENT",
}

// SetupTest blanks every variable so the developer's environment can't leak in
func (s *ConfigTestSuite) SetupTest() {
	for _, v := range configVars {
		s.T().Setenv(v, "")
	}
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := FromEnv()
	s.Require().NoError(err)

	s.Equal("local", cfg.PlayerID)
	s.Equal(8, cfg.HandSize)
	s.Equal(2, cfg.MinPlays)
	s.Equal("uniform", cfg.Shuffle)
	s.Equal(StorageMemory, cfg.StorageType)
	s.Equal(HistoryMemory, cfg.HistoryType)
	s.Equal("localhost:6379", cfg.RedisAddr)
	s.Equal("thegame_actions", cfg.HistoryQueue)
	s.Equal("thegame", cfg.ESIndexPrefix)
	s.Equal(0, cfg.ESRetentionMonths)
	s.Equal(30*time.Minute, cfg.IdleTimeout)
	s.Equal(time.Minute, cfg.SweepInterval)
	s.Equal(logging.INFO, cfg.Level())
	s.True(cfg.IsDevelopment())
	s.Equal(filepath.Join("data", "thegame.db"), cfg.SQLitePath())

	rules := cfg.Rules()
	s.Equal(8, rules.HandSize)
	s.Equal(2, rules.MinPlays)
	s.Equal(entities.ShuffleUniform, rules.Shuffle)
	s.Nil(rules.Rand)
}

func (s *ConfigTestSuite) TestOverrides() {
	s.T().Setenv("THEGAME_HAND_SIZE", "6")
	s.T().Setenv("THEGAME_SHUFFLE", " Legacy ")
	s.T().Setenv("THEGAME_SEED", "42")
	s.T().Setenv("THEGAME_LOG_LEVEL", "debug")
	s.T().Setenv("STORAGE_TYPE", "postgres")
	s.T().Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/thegame")
	s.T().Setenv("HISTORY_TYPE", "redis")
	s.T().Setenv("REDIS_DB", "3")
	s.T().Setenv("SESSION_IDLE_TIMEOUT", "2h")
	s.T().Setenv("ES_RETENTION_MONTHS", "12")

	cfg, err := FromEnv()
	s.Require().NoError(err)

	s.Equal(6, cfg.HandSize)
	s.Equal("legacy", cfg.Shuffle)
	s.Equal(StoragePostgres, cfg.StorageType)
	s.Equal(3, cfg.RedisDB)
	s.Equal(2*time.Hour, cfg.IdleTimeout)
	s.Equal(12, cfg.ESRetentionMonths)
	s.Equal(logging.DEBUG, cfg.Level())

	rules := cfg.Rules()
	s.Equal(entities.ShuffleLegacy, rules.Shuffle)
	s.NotNil(rules.Rand)
}

func (s *ConfigTestSuite) TestSeedIsReproducible() {
	s.T().Setenv("THEGAME_SEED", "7")
	cfg, err := FromEnv()
	s.Require().NoError(err)

	first := entities.NewDeck(cfg.Rules().Rand, entities.ShuffleUniform)
	second := entities.NewDeck(cfg.Rules().Rand, entities.ShuffleUniform)
	for !first.IsEmpty() {
		a, _ := first.Draw()
		b, _ := second.Draw()
		s.Equal(a, b)
	}
}

func (s *ConfigTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero hand size", "THEGAME_HAND_SIZE", "0"},
		{"zero min plays", "THEGAME_MIN_PLAYS", "0"},
		{"unknown shuffle", "THEGAME_SHUFFLE", "riffle"},
		{"unknown log level", "THEGAME_LOG_LEVEL", "loud"},
		{"unknown storage", "STORAGE_TYPE", "mongo"},
		{"postgres without url", "STORAGE_TYPE", "postgres"},
		{"unknown history", "HISTORY_TYPE", "kafka"},
		{"hand size not a number", "THEGAME_HAND_SIZE", "eight"},
		{"negative idle timeout", "SESSION_IDLE_TIMEOUT", "-5m"},
		{"idle timeout not a duration", "SESSION_IDLE_TIMEOUT", "soon"},
		{"negative retention", "ES_RETENTION_MONTHS", "-1"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv(tc.key, tc.value)
			_, err := FromEnv()
			s.Error(err)
		})
	}
}
