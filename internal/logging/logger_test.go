package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/stretchr/testify/suite"
)

type LoggerTestSuite struct {
	suite.Suite
	buf    *bytes.Buffer
	logger *Logger
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (s *LoggerTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
	s.logger = NewLogger(INFO)
	s.logger.SetOutput(s.buf)
}

func (s *LoggerTestSuite) TestLevelFiltering() {
	s.logger.Debug("hidden %d", 1)
	s.Empty(s.buf.String(), "Debug should be filtered at INFO")

	s.logger.Info("shown %d", 2)
	s.Contains(s.buf.String(), "shown 2")
	s.Contains(s.buf.String(), "level=info")
}

func (s *LoggerTestSuite) TestWithFields() {
	s.logger.WithFields(map[string]interface{}{"game_id": "g-1"}).Warn("stuck")

	out := s.buf.String()
	s.Contains(out, "game_id=g-1")
	s.Contains(out, "level=warning")
}

func (s *LoggerTestSuite) TestLogGameError() {
	s.logger.LogError(types.WrapError(types.ErrDatabaseError, "failed to save result", errors.New("disk full")))

	out := s.buf.String()
	s.Contains(out, "failed to save result")
	s.Contains(out, "code=DATABASE_ERROR")
	s.Contains(out, "disk full")
}

func (s *LoggerTestSuite) TestLogPlainError() {
	s.logger.LogError(errors.New("boom"))
	s.Contains(s.buf.String(), "Unexpected error: boom")

	s.buf.Reset()
	s.logger.LogError(nil)
	s.Empty(s.buf.String())
}

func (s *LoggerTestSuite) TestParseLevel() {
	testCases := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{" warn ", WARN, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"verbose", INFO, true},
	}

	for _, tc := range testCases {
		s.Run(tc.input, func() {
			level, err := ParseLevel(tc.input)
			if tc.wantErr {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.Equal(tc.expected, level)
		})
	}
}
