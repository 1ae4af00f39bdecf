package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	err := NewGameError(ErrInvalidAction, "card is not in hand")

	s.Equal(ErrInvalidAction, err.Code)
	s.Equal("card is not in hand", err.Message)
	s.Nil(err.Err, "Underlying error should be nil")
}

func (s *ErrorTestSuite) TestWrapError() {
	underlying := errors.New("connection refused")

	err := WrapError(ErrDatabaseError, "failed to save result", underlying)

	s.Equal(ErrDatabaseError, err.Code)
	s.Equal(underlying, err.Err)
	s.ErrorIs(err, underlying, "Wrapped error should unwrap to its cause")
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrInvalidAction, "illegal end of turn"),
			expected: "INVALID_ACTION: illegal end of turn",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrDatabaseError, "failed to save result", errors.New("disk full")),
			expected: "DATABASE_ERROR: failed to save result (disk full)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
		})
	}
}

func (s *ErrorTestSuite) TestIsGameError() {
	gameErr := NewGameError(ErrGameNotFound, "game not found")

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{"Matching game error", gameErr, ErrGameNotFound, true},
		{"Non-matching game error", gameErr, ErrInternalError, false},
		{"Wrapped game error", fmt.Errorf("apply: %w", gameErr), ErrGameNotFound, true},
		{"Regular error", errors.New("regular error"), ErrGameNotFound, false},
		{"Nil error", nil, ErrGameNotFound, false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, IsGameError(tc.err, tc.code))
		})
	}
}

func (s *ErrorTestSuite) TestCodeOf() {
	s.Equal(ErrMalformedInput, CodeOf(NewGameError(ErrMalformedInput, "bad token")))
	s.Equal(ErrorCode(""), CodeOf(errors.New("plain")))
	s.Equal(ErrorCode(""), CodeOf(nil))
}

func (s *ErrorTestSuite) TestAs() {
	gameErr := NewGameError(ErrInvalidAction, "no such target stack")

	var target *GameError
	s.True(As(gameErr, &target))
	s.Equal(gameErr, target)

	s.False(As(errors.New("regular error"), &target))
	s.False(As(nil, &target))
	s.False(As(gameErr, nil))
}
