package textui

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/games/thegame"
	"github.com/fadedpez/thegame/pkg/services/statistics"
)

const prompt = "Play a card with C<card>-<stack>, end your turn with S, H for a hint, Q to quit: "

// Session plays one game on a text terminal
type Session struct {
	manager  *thegame.Manager
	stats    *statistics.Service
	logger   *logging.Logger
	playerID string
	options  thegame.Options

	in  *bufio.Scanner
	out io.Writer
}

// NewSession creates a session for playerID reading commands from in and
// writing to out. stats and logger may be nil.
func NewSession(manager *thegame.Manager, stats *statistics.Service, logger *logging.Logger,
	playerID string, options thegame.Options, in io.Reader, out io.Writer) *Session {
	if logger == nil {
		logger = logging.Default
	}
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Session{
		manager:  manager,
		stats:    stats,
		logger:   logger,
		playerID: playerID,
		options:  options,
		in:       scanner,
		out:      out,
	}
}

// Run plays a game until it ends, the player quits, input runs out or ctx is
// cancelled. A game left unfinished is recorded as abandoned.
func (s *Session) Run(ctx context.Context) (entities.Outcome, error) {
	state, err := s.manager.StartGame(ctx, s.playerID, s.options)
	if err != nil {
		return "", err
	}
	gameID := state.GameID

	outcome, err := s.loop(ctx, state)
	if err != nil {
		return "", err
	}
	if !outcome.IsTerminal() {
		if _, err := s.manager.Abandon(ctx, gameID); err != nil {
			if _, err := closed(err); err != nil {
				return "", err
			}
		}
		outcome = entities.OutcomeAbandoned
	}

	s.say(OutcomeMessage(outcome))
	s.printStatistics(ctx)
	return outcome, nil
}

func (s *Session) loop(ctx context.Context, state *thegame.Snapshot) (entities.Outcome, error) {
	gameID := state.GameID
	for {
		if err := RenderState(s.out, state); err != nil {
			return "", err
		}

		if ctx.Err() != nil {
			return entities.OutcomeTurnContinues, nil
		}
		fmt.Fprint(s.out, prompt)
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				s.logger.Warn("Failed to read input: %v", err)
			}
			return entities.OutcomeTurnContinues, nil
		}

		cmd, err := ParseAction(s.in.Text())
		if err != nil {
			s.say(ErrorMessage(err))
			continue
		}

		switch cmd.Kind {
		case CommandQuit:
			return entities.OutcomeTurnContinues, nil
		case CommandHint:
			moves, err := s.manager.LegalMoves(gameID)
			if err != nil {
				return closed(err)
			}
			if err := RenderHint(s.out, moves); err != nil {
				return "", err
			}
			continue
		}

		result, err := s.manager.Apply(ctx, gameID, cmd.Action)
		if types.IsGameError(err, types.ErrGameNotFound) {
			return closed(err)
		}
		if err != nil {
			s.say(ErrorMessage(err))
			continue
		}

		if result.Play != nil {
			s.say(PlayedMessage(result.Play.Card, result.Play.Stack))
		}
		if result.Outcome().IsTerminal() {
			return result.Outcome(), nil
		}

		if state, err = s.manager.Snapshot(gameID); err != nil {
			return closed(err)
		}
	}
}

// closed maps a game that disappeared from the manager, which happens when it
// sat idle for too long, to an abandoned outcome
func closed(err error) (entities.Outcome, error) {
	if types.IsGameError(err, types.ErrGameNotFound) {
		return entities.OutcomeAbandoned, nil
	}
	return "", err
}

func (s *Session) printStatistics(ctx context.Context) {
	if s.stats == nil {
		return
	}
	stats, err := s.stats.GetPlayerStatistics(ctx, s.playerID)
	if err != nil {
		s.logger.LogError(err)
		return
	}
	if err := RenderStatistics(s.out, stats); err != nil {
		s.logger.Warn("Failed to write statistics: %v", err)
	}
}

func (s *Session) say(msg string) {
	if msg == "" {
		return
	}
	fmt.Fprintln(s.out, msg)
}
