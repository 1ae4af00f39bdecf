package thegame

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/history"
	mock_game "github.com/fadedpez/thegame/pkg/repositories/game/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ManagerTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	repo      *mock_game.MockRepository
	publisher *history.MemoryPublisher
	manager   *Manager
	ctx       context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (s *ManagerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.repo = mock_game.NewMockRepository(s.ctrl)
	s.publisher = history.NewMemoryPublisher()
	s.manager = NewManager(s.repo, s.publisher, logging.NewLogger(logging.ERROR))
	s.ctx = context.Background()
}

func fixedOptions(handSize int, cards ...entities.Card) Options {
	opts := DefaultOptions()
	opts.HandSize = handSize
	opts.Deck = entities.NewDeckFromCards(cards)
	return opts
}

func (s *ManagerTestSuite) TestNilRepositoryPanics() {
	s.Panics(func() { NewManager(nil, nil, nil) })
}

func (s *ManagerTestSuite) TestStartGame() {
	_, err := s.manager.StartGame(s.ctx, "", DefaultOptions())
	s.True(types.IsGameError(err, types.ErrInvalidArgument))

	state, err := s.manager.StartGame(s.ctx, "alice", DefaultOptions())
	s.Require().NoError(err)
	s.Equal("alice", state.PlayerID)
	s.Len(state.Hand, entities.DefaultHandSize)
	s.Equal([]string{state.GameID}, s.manager.ActiveGames())

	snap, err := s.manager.Snapshot(state.GameID)
	s.Require().NoError(err)
	s.Equal(state, snap)
}

func (s *ManagerTestSuite) TestUnknownGame() {
	_, err := s.manager.Apply(s.ctx, "missing", EndTurn{})
	s.True(types.IsGameError(err, types.ErrGameNotFound))

	_, err = s.manager.Snapshot("missing")
	s.True(types.IsGameError(err, types.ErrGameNotFound))

	_, err = s.manager.LegalMoves("missing")
	s.True(types.IsGameError(err, types.ErrGameNotFound))

	_, err = s.manager.Abandon(s.ctx, "missing")
	s.True(types.IsGameError(err, types.ErrGameNotFound))
}

func (s *ManagerTestSuite) TestNilAction() {
	state, err := s.manager.StartGame(s.ctx, "alice", DefaultOptions())
	s.Require().NoError(err)

	_, err = s.manager.Apply(s.ctx, state.GameID, nil)
	s.True(types.IsGameError(err, types.ErrMalformedInput))
}

func (s *ManagerTestSuite) TestPlayToWin() {
	state, err := s.manager.StartGame(s.ctx, "alice", fixedOptions(2, 10, 20))
	s.Require().NoError(err)

	var saved *entities.GameResult
	s.repo.EXPECT().SaveGameResult(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, result *entities.GameResult) error {
			saved = result
			return nil
		})

	moves, err := s.manager.LegalMoves(state.GameID)
	s.Require().NoError(err)
	s.NotEmpty(moves)

	_, err = s.manager.Apply(s.ctx, state.GameID, EndTurn{})
	s.True(types.IsGameError(err, types.ErrInvalidAction))

	_, err = s.manager.Apply(s.ctx, state.GameID, PlayCard{Card: 10, Stack: UpStackOne})
	s.Require().NoError(err)
	_, err = s.manager.Apply(s.ctx, state.GameID, PlayCard{Card: 20, Stack: UpStackOne})
	s.Require().NoError(err)

	result, err := s.manager.Apply(s.ctx, state.GameID, EndTurn{})
	s.Require().NoError(err)
	s.Equal(entities.OutcomeWon, result.Outcome())

	s.Require().NotNil(saved)
	s.Equal(state.GameID, saved.GameID)
	s.Equal("alice", saved.PlayerID)
	s.Equal(entities.OutcomeWon, saved.Outcome)
	s.Equal(0, saved.CardsRemaining)

	s.Empty(s.manager.ActiveGames())
	_, err = s.manager.Snapshot(state.GameID)
	s.True(types.IsGameError(err, types.ErrGameNotFound))

	records := s.publisher.GameRecords(state.GameID)
	s.Require().Len(records, 4)
	s.False(records[0].Accepted())
	s.Equal(entities.OutcomeWon, records[3].Outcome)
}

func (s *ManagerTestSuite) TestSaveFailureStillEndsGame() {
	state, err := s.manager.StartGame(s.ctx, "alice", fixedOptions(1, 42))
	s.Require().NoError(err)

	s.repo.EXPECT().SaveGameResult(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err = s.manager.Apply(s.ctx, state.GameID, PlayCard{Card: 42, Stack: DownStackOne})
	s.Require().NoError(err)
	result, err := s.manager.Apply(s.ctx, state.GameID, EndTurn{})
	s.Require().NoError(err)
	s.Equal(entities.OutcomeWon, result.Outcome())
	s.Empty(s.manager.ActiveGames())
}

func (s *ManagerTestSuite) TestAbandon() {
	state, err := s.manager.StartGame(s.ctx, "bob", fixedOptions(2, 10, 20, 30))
	s.Require().NoError(err)

	s.repo.EXPECT().SaveGameResult(gomock.Any(), gomock.Cond(func(x any) bool {
		r, ok := x.(*entities.GameResult)
		return ok && r.Outcome == entities.OutcomeAbandoned && r.CardsRemaining == 3
	})).Return(nil)

	result, err := s.manager.Abandon(s.ctx, state.GameID)
	s.Require().NoError(err)
	s.Equal(entities.OutcomeAbandoned, result.Outcome)
	s.Empty(s.manager.ActiveGames())

	records := s.publisher.GameRecords(state.GameID)
	s.Require().Len(records, 1)
	s.Equal(entities.ActionAbandon, records[0].Type)
}

func (s *ManagerTestSuite) TestAbandonIdle() {
	clock := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s.manager.now = func() time.Time { return clock }

	idle, err := s.manager.StartGame(s.ctx, "alice", fixedOptions(2, 10, 20, 30))
	s.Require().NoError(err)
	busy, err := s.manager.StartGame(s.ctx, "bob", fixedOptions(2, 10, 20, 30))
	s.Require().NoError(err)

	clock = clock.Add(20 * time.Minute)
	_, err = s.manager.Apply(s.ctx, busy.GameID, PlayCard{Card: 10, Stack: UpStackOne})
	s.Require().NoError(err)

	clock = clock.Add(15 * time.Minute)
	s.repo.EXPECT().SaveGameResult(gomock.Any(), gomock.Cond(func(x any) bool {
		r, ok := x.(*entities.GameResult)
		return ok && r.PlayerID == "alice" && r.Outcome == entities.OutcomeAbandoned
	})).Return(nil)

	s.Equal(1, s.manager.AbandonIdle(s.ctx, 30*time.Minute))
	s.Equal([]string{busy.GameID}, s.manager.ActiveGames())

	_, err = s.manager.Snapshot(idle.GameID)
	s.True(types.IsGameError(err, types.ErrGameNotFound))

	s.Equal(0, s.manager.AbandonIdle(s.ctx, 30*time.Minute))
}

func (s *ManagerTestSuite) TestGamesAreIsolated() {
	first, err := s.manager.StartGame(s.ctx, "alice", fixedOptions(2, 10, 20, 30, 40))
	s.Require().NoError(err)
	second, err := s.manager.StartGame(s.ctx, "bob", fixedOptions(2, 10, 20, 30, 40))
	s.Require().NoError(err)
	s.Len(s.manager.ActiveGames(), 2)

	_, err = s.manager.Apply(s.ctx, first.GameID, PlayCard{Card: 10, Stack: UpStackOne})
	s.Require().NoError(err)

	snap, err := s.manager.Snapshot(second.GameID)
	s.Require().NoError(err)
	s.Equal(second, snap)
}

func (s *ManagerTestSuite) TestConcurrentGames() {
	const games = 8
	s.repo.EXPECT().SaveGameResult(gomock.Any(), gomock.Any()).Return(nil).Times(games)

	var wg sync.WaitGroup
	errs := make(chan error, games)
	for i := 0; i < games; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := s.manager.StartGame(s.ctx, "player", fixedOptions(2, 10, 20))
			if err != nil {
				errs <- err
				return
			}
			for _, a := range []Action{PlayCard{Card: 10, Stack: UpStackOne}, PlayCard{Card: 20, Stack: UpStackOne}, EndTurn{}} {
				if _, err := s.manager.Apply(s.ctx, state.GameID, a); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
	s.Empty(s.manager.ActiveGames())
	s.Len(s.publisher.Records(), games*3)
}

func (s *ManagerTestSuite) TestNilPublisher() {
	manager := NewManager(s.repo, nil, nil)
	state, err := manager.StartGame(s.ctx, "alice", fixedOptions(1, 42))
	s.Require().NoError(err)

	_, err = manager.Apply(s.ctx, state.GameID, PlayCard{Card: 42, Stack: UpStackOne})
	s.NoError(err)
}
