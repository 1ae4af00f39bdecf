package game

import (
	"errors"

	"github.com/fadedpez/thegame/internal/types"
)

var (
	errNilResult     = types.NewGameError(types.ErrInvalidArgument, "game result is nil")
	errMissingGameID = types.NewGameError(types.ErrInvalidArgument, "game result has no game id")
	errNotFinished   = types.NewGameError(types.ErrInvalidArgument, "game result has no terminal outcome")

	// ErrDuplicateResult is returned when a result for the same game is saved twice
	ErrDuplicateResult = errors.New("game result already saved")
)
