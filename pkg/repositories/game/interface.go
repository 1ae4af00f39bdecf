package game

import (
	"context"

	"github.com/fadedpez/thegame/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_game

// Repository stores the results of finished games. Results are returned
// newest first; a limit of zero or less returns everything.
type Repository interface {
	SaveGameResult(ctx context.Context, result *entities.GameResult) error
	GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.GameResult, error)
	GetRecentResults(ctx context.Context, limit int) ([]*entities.GameResult, error)

	// Close closes any resources used by the repository
	Close() error
}

func validateResult(result *entities.GameResult) error {
	if result == nil {
		return errNilResult
	}
	if result.GameID == "" {
		return errMissingGameID
	}
	if !result.Outcome.IsTerminal() {
		return errNotFinished
	}
	return nil
}
