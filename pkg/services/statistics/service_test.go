package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	mock_game "github.com/fadedpez/thegame/pkg/repositories/game/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	repo    *mock_game.MockRepository
	service *Service
	ctx     context.Context
	now     time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mock_game.NewMockRepository(s.ctrl)
	s.service = NewService(s.repo)
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceTestSuite) result(player string, outcome entities.Outcome, remaining int, hoursAgo int) *entities.GameResult {
	return &entities.GameResult{
		GameID:         player + "-" + string(outcome),
		PlayerID:       player,
		Outcome:        outcome,
		CardsRemaining: remaining,
		CardsPlayed:    entities.PlayableCount - remaining,
		CompletedAt:    s.now.Add(-time.Duration(hoursAgo) * time.Hour),
	}
}

func (s *ServiceTestSuite) TestGetPlayerStatistics() {
	s.repo.EXPECT().GetPlayerResults(gomock.Any(), "alice", 0).Return([]*entities.GameResult{
		s.result("alice", entities.OutcomeLost, 12, 1),
		s.result("alice", entities.OutcomeWon, 0, 2),
		s.result("alice", entities.OutcomeAbandoned, 80, 3),
		s.result("alice", entities.OutcomeLost, 4, 4),
	}, nil)

	stats, err := s.service.GetPlayerStatistics(s.ctx, "alice")
	s.Require().NoError(err)

	s.Equal("alice", stats.PlayerID)
	s.Equal(4, stats.GamesPlayed)
	s.Equal(1, stats.Wins)
	s.Equal(2, stats.Losses)
	s.Equal(1, stats.Abandoned)
	s.Equal(0, stats.BestRemaining)
	s.Equal(96, stats.TotalRemaining)
	s.Equal(4*entities.PlayableCount-96, stats.TotalCardsPlayed)
	s.Equal(s.now.Add(-time.Hour), stats.LastPlayed)
	s.InDelta(25.0, stats.WinRate(), 0.001)
	s.InDelta(24.0, stats.AverageRemaining(), 0.001)
}

func (s *ServiceTestSuite) TestGetPlayerStatisticsNoGames() {
	s.repo.EXPECT().GetPlayerResults(gomock.Any(), "bob", 0).Return([]*entities.GameResult{}, nil)

	stats, err := s.service.GetPlayerStatistics(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(0, stats.GamesPlayed)
	s.Equal(0.0, stats.WinRate())
	s.Equal(0.0, stats.AverageRemaining())
}

func (s *ServiceTestSuite) TestErrors() {
	_, err := s.service.GetPlayerStatistics(s.ctx, "")
	s.True(types.IsGameError(err, types.ErrInvalidArgument))

	s.repo.EXPECT().GetPlayerResults(gomock.Any(), "alice", 0).Return(nil, errors.New("connection refused"))
	_, err = s.service.GetPlayerStatistics(s.ctx, "alice")
	s.True(types.IsGameError(err, types.ErrDatabaseError))

	s.repo.EXPECT().GetRecentResults(gomock.Any(), 5).Return(nil, errors.New("connection refused"))
	_, err = s.service.GetRecent(s.ctx, 5)
	s.True(types.IsGameError(err, types.ErrDatabaseError))
}

func (s *ServiceTestSuite) TestGetRecent() {
	want := []*entities.GameResult{s.result("alice", entities.OutcomeWon, 0, 1)}
	s.repo.EXPECT().GetRecentResults(gomock.Any(), 1).Return(want, nil)

	got, err := s.service.GetRecent(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *ServiceTestSuite) TestGetLeaderboard() {
	s.repo.EXPECT().GetRecentResults(gomock.Any(), 0).Return([]*entities.GameResult{
		s.result("alice", entities.OutcomeWon, 0, 1),
		s.result("bob", entities.OutcomeLost, 3, 2),
		s.result("bob", entities.OutcomeAbandoned, 60, 3),
		s.result("bob", entities.OutcomeWon, 0, 4),
		s.result("carol", entities.OutcomeLost, 2, 5),
		s.result("dave", entities.OutcomeLost, 9, 6),
	}, nil).Times(2)

	board, err := s.service.GetLeaderboard(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Equal(4, board.TotalPlayers)
	s.Equal(2, board.TotalPages)
	s.Require().Len(board.Players, 2)

	// alice and bob both have one win with nothing left; ties go by id
	s.Equal("alice", board.Players[0].PlayerID)
	s.Equal(1, board.Players[0].Rank)
	s.True(board.Players[0].IsTopWinner)
	s.Equal("bob", board.Players[1].PlayerID)
	s.True(board.Players[1].IsTopPlayer)
	s.InDelta(100.0/3.0, board.Players[1].WinRate, 0.001)

	board, err = s.service.GetLeaderboard(s.ctx, 9, 2)
	s.Require().NoError(err)
	s.Equal(2, board.CurrentPage)
	s.Require().Len(board.Players, 2)
	s.Equal("carol", board.Players[0].PlayerID)
	s.Equal(3, board.Players[0].Rank)
	s.Equal("dave", board.Players[1].PlayerID)
}

func (s *ServiceTestSuite) TestGetLeaderboardEmpty() {
	s.repo.EXPECT().GetRecentResults(gomock.Any(), 0).Return([]*entities.GameResult{}, nil)

	board, err := s.service.GetLeaderboard(s.ctx, 0, 0)
	s.Require().NoError(err)
	s.Equal(1, board.CurrentPage)
	s.Equal(10, board.PlayersPerPage)
	s.Empty(board.Players)
	s.Equal(0, board.TotalPages)
}
