package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/repositories/game"
)

// Service provides methods for retrieving and processing player statistics
type Service struct {
	repository game.Repository
}

// NewService creates a new statistics service
func NewService(repository game.Repository) *Service {
	return &Service{
		repository: repository,
	}
}

// GetPlayerStatistics aggregates every stored result of a player
func (s *Service) GetPlayerStatistics(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	if playerID == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "player id is required")
	}

	results, err := s.repository.GetPlayerResults(ctx, playerID, 0)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load player results", err)
	}

	stats := &entities.PlayerStatistics{PlayerID: playerID}
	for _, r := range results {
		addResult(stats, r)
	}
	return stats, nil
}

// GetRecent returns the latest results of every player
func (s *Service) GetRecent(ctx context.Context, limit int) ([]*entities.GameResult, error) {
	results, err := s.repository.GetRecentResults(ctx, limit)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load recent results", err)
	}
	return results, nil
}

func addResult(stats *entities.PlayerStatistics, r *entities.GameResult) {
	if stats.GamesPlayed == 0 || r.CardsRemaining < stats.BestRemaining {
		stats.BestRemaining = r.CardsRemaining
	}
	stats.GamesPlayed++

	switch r.Outcome {
	case entities.OutcomeWon:
		stats.Wins++
	case entities.OutcomeLost:
		stats.Losses++
	case entities.OutcomeAbandoned:
		stats.Abandoned++
	}

	stats.TotalRemaining += r.CardsRemaining
	stats.TotalCardsPlayed += r.CardsPlayed
	if r.CompletedAt.After(stats.LastPlayed) {
		stats.LastPlayed = r.CompletedAt
	}
}

// PlayerRank represents a player's statistics with ranking information
type PlayerRank struct {
	*entities.PlayerStatistics
	Rank        int     `json:"rank"`
	WinRate     float64 `json:"win_rate"`
	IsTopWinner bool    `json:"is_top_winner"`
	IsTopPlayer bool    `json:"is_top_player"`
}

// Leaderboard represents a paginated ranking of players
type Leaderboard struct {
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"total_players"`
	CurrentPage    int           `json:"current_page"`
	TotalPages     int           `json:"total_pages"`
	PlayersPerPage int           `json:"players_per_page"`
	LastUpdated    time.Time     `json:"last_updated"`
}

// GetLeaderboard ranks every player by wins, then by fewest cards left in
// their best game, then by player id
func (s *Service) GetLeaderboard(ctx context.Context, page, playersPerPage int) (*Leaderboard, error) {
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	results, err := s.repository.GetRecentResults(ctx, 0)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load results", err)
	}

	byPlayer := make(map[string]*entities.PlayerStatistics)
	for _, r := range results {
		stats, ok := byPlayer[r.PlayerID]
		if !ok {
			stats = &entities.PlayerStatistics{PlayerID: r.PlayerID}
			byPlayer[r.PlayerID] = stats
		}
		addResult(stats, r)
	}

	playerRanks := make([]*PlayerRank, 0, len(byPlayer))
	for _, stats := range byPlayer {
		playerRanks = append(playerRanks, &PlayerRank{
			PlayerStatistics: stats,
			WinRate:          stats.WinRate(),
		})
	}

	sort.Slice(playerRanks, func(i, j int) bool {
		a, b := playerRanks[i], playerRanks[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.BestRemaining != b.BestRemaining {
			return a.BestRemaining < b.BestRemaining
		}
		return a.PlayerID < b.PlayerID
	})

	if len(playerRanks) > 0 {
		playerRanks[0].IsTopWinner = true

		mostGamesIdx := 0
		for i := 1; i < len(playerRanks); i++ {
			if playerRanks[i].GamesPlayed > playerRanks[mostGamesIdx].GamesPlayed {
				mostGamesIdx = i
			}
		}
		playerRanks[mostGamesIdx].IsTopPlayer = true
	}

	for i := range playerRanks {
		playerRanks[i].Rank = i + 1
	}

	totalPlayers := len(playerRanks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := start + playersPerPage
	if end > totalPlayers {
		end = totalPlayers
	}

	currentPagePlayers := []*PlayerRank{}
	if start < totalPlayers {
		currentPagePlayers = playerRanks[start:end]
	}

	return &Leaderboard{
		Players:        currentPagePlayers,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    time.Now(),
	}, nil
}
