package thegame

import (
	"fmt"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
)

// Action is a player intent the game can validate and apply
type Action interface {
	Type() entities.ActionType
	Validate() error
	Apply(g *Game) (*ActionResult, error)
}

// ActionResult carries the result of whichever action was applied
type ActionResult struct {
	Type entities.ActionType
	Play *PlayResult
	Turn *TurnResult
}

// Outcome returns the outcome reached by the action. A play never ends the game.
func (r *ActionResult) Outcome() entities.Outcome {
	if r.Turn != nil {
		return r.Turn.Outcome
	}
	return entities.OutcomeTurnContinues
}

// PlayCard places Card on Stack
type PlayCard struct {
	Card  entities.Card
	Stack StackID
}

func (a PlayCard) Type() entities.ActionType {
	return entities.ActionPlayCard
}

// Validate checks that the card and stack are within range
func (a PlayCard) Validate() error {
	if !a.Card.IsPlayable() {
		return types.NewGameError(types.ErrMalformedInput,
			fmt.Sprintf("card must be between %d and %d, got %d", entities.MinPlayable, entities.MaxPlayable, a.Card))
	}
	if !a.Stack.IsValid() {
		return types.NewGameError(types.ErrMalformedInput,
			fmt.Sprintf("stack must be between %d and %d, got %d", UpStackOne, DownStackTwo, a.Stack))
	}
	return nil
}

func (a PlayCard) Apply(g *Game) (*ActionResult, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	play, err := g.PlayCard(a.Card, a.Stack)
	if err != nil {
		return nil, err
	}
	return &ActionResult{Type: a.Type(), Play: play}, nil
}

// EndTurn closes the current turn
type EndTurn struct{}

func (EndTurn) Type() entities.ActionType {
	return entities.ActionEndTurn
}

func (EndTurn) Validate() error {
	return nil
}

func (a EndTurn) Apply(g *Game) (*ActionResult, error) {
	turn, err := g.EndTurn()
	if err != nil {
		return nil, err
	}
	return &ActionResult{Type: a.Type(), Turn: turn}, nil
}
