package thegame

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/history"
	"github.com/fadedpez/thegame/pkg/repositories/game"
)

// session is one running game. Its mutex serializes actions on that game only.
type session struct {
	mu         sync.Mutex
	game       *Game
	published  int // history records already sent to the publisher
	lastActive time.Time
}

// Manager runs any number of isolated games
type Manager struct {
	repo      game.Repository
	publisher history.Publisher
	logger    *logging.Logger

	sessions map[string]*session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewManager creates a new game manager. publisher and logger may be nil.
func NewManager(repo game.Repository, publisher history.Publisher, logger *logging.Logger) *Manager {
	if repo == nil {
		panic("repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Manager{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		sessions:  make(map[string]*session),
		now:       time.Now,
	}
}

// StartGame deals a new game for playerID and returns its first state
func (m *Manager) StartGame(ctx context.Context, playerID string, opts Options) (*Snapshot, error) {
	if playerID == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "player id is required")
	}

	g := NewGame(playerID, opts)

	m.mu.Lock()
	m.sessions[g.ID] = &session{game: g, lastActive: m.now()}
	m.mu.Unlock()

	m.logger.WithFields(map[string]interface{}{
		"game_id":   g.ID,
		"player_id": playerID,
	}).Info("Started game")

	return g.State(), nil
}

func (m *Manager) session(gameID string) (*session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[gameID]
	if !ok {
		return nil, types.NewGameError(types.ErrGameNotFound, fmt.Sprintf("no active game %s", gameID))
	}
	return s, nil
}

// Apply validates and applies action to the game. Rule violations leave the
// game unchanged and are returned as INVALID_ACTION errors. When the action
// ends the game the result is stored and the game is closed.
func (m *Manager) Apply(ctx context.Context, gameID string, action Action) (*ActionResult, error) {
	if action == nil {
		return nil, types.NewGameError(types.ErrMalformedInput, "no action given")
	}

	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = m.now()
	result, err := action.Apply(s.game)
	m.publish(ctx, s)

	log := m.logger.WithFields(map[string]interface{}{
		"game_id": gameID,
		"action":  string(action.Type()),
	})
	if err != nil {
		log.Debug("Rejected action: %v", err)
		return nil, err
	}
	log.Debug("Applied action")

	if result.Outcome().IsTerminal() {
		m.finish(ctx, s)
	}
	return result, nil
}

// Abandon ends a running game early and records it as abandoned
func (m *Manager) Abandon(ctx context.Context, gameID string) (*entities.GameResult, error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.Abandon(); err != nil {
		return nil, err
	}
	m.publish(ctx, s)
	return m.finish(ctx, s), nil
}

// AbandonIdle abandons every running game that has not seen an action for
// longer than maxIdle and returns how many were abandoned
func (m *Manager) AbandonIdle(ctx context.Context, maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.RLock()
	sessions := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	abandoned := 0
	for _, s := range sessions {
		s.mu.Lock()
		// a game may have ended between the listing and the lock
		if !s.game.IsOver() && s.lastActive.Before(cutoff) {
			if err := s.game.Abandon(); err == nil {
				m.publish(ctx, s)
				m.finish(ctx, s)
				abandoned++
			}
		}
		s.mu.Unlock()
	}

	if abandoned > 0 {
		m.logger.Info("Abandoned %d idle game(s)", abandoned)
	}
	return abandoned
}

// finish stores the result of a game that just ended and forgets the session.
// A failed save is logged; the game is over either way.
func (m *Manager) finish(ctx context.Context, s *session) *entities.GameResult {
	result := s.game.Result()

	m.mu.Lock()
	delete(m.sessions, s.game.ID)
	m.mu.Unlock()

	log := m.logger.WithFields(map[string]interface{}{
		"game_id":         result.GameID,
		"player_id":       result.PlayerID,
		"outcome":         result.Outcome.String(),
		"cards_remaining": result.CardsRemaining,
	})
	log.Info("Game finished")

	if err := m.repo.SaveGameResult(ctx, result); err != nil {
		log.LogError(types.WrapError(types.ErrDatabaseError, "failed to save game result", err))
	}
	return result
}

// publish sends the records the game added since the last call
func (m *Manager) publish(ctx context.Context, s *session) {
	records := s.game.History()
	if m.publisher == nil {
		s.published = len(records)
		return
	}

	for _, record := range records[s.published:] {
		if err := m.publisher.Publish(ctx, record); err != nil {
			m.logger.WithField("game_id", record.GameID).Warn("Failed to publish action %d: %v", record.Index, err)
		}
	}
	s.published = len(records)
}

// Snapshot returns the current state of a running game
func (m *Manager) Snapshot(gameID string) (*Snapshot, error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.State(), nil
}

// LegalMoves lists the moves currently available in a running game
func (m *Manager) LegalMoves(gameID string) ([]Move, error) {
	s, err := m.session(gameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.LegalMoves(), nil
}

// ActiveGames returns the ids of all running games, sorted
func (m *Manager) ActiveGames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
