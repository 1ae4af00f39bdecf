package thegame

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/google/uuid"
)

// StackID identifies one of the four stacks: 1 and 2 go up, 3 and 4 go down
type StackID int

const (
	UpStackOne StackID = iota + 1
	UpStackTwo
	DownStackOne
	DownStackTwo

	stackCount = 4
)

// DefaultMinPlays is the number of cards that must be played each turn
const DefaultMinPlays = 2

// IsValid reports whether the id names a stack
func (id StackID) IsValid() bool {
	return id >= UpStackOne && id <= DownStackTwo
}

// Direction returns the direction of the stack with this id
func (id StackID) Direction() entities.Direction {
	if id >= DownStackOne {
		return entities.Down
	}
	return entities.Up
}

// Options configures a new game
type Options struct {
	HandSize int
	MinPlays int
	Shuffle  entities.ShuffleMode
	Rand     *rand.Rand
	// Deck replaces the shuffled deck, for reproducing a specific game
	Deck *entities.Deck
}

// DefaultOptions returns the single player rules
func DefaultOptions() Options {
	return Options{
		HandSize: entities.DefaultHandSize,
		MinPlays: DefaultMinPlays,
		Shuffle:  entities.ShuffleUniform,
	}
}

// Move is a legal placement of a held card
type Move struct {
	Card  entities.Card
	Stack StackID
}

// PlayResult describes a successful play
type PlayResult struct {
	Card        entities.Card
	Stack       StackID
	NewTop      entities.Card
	CardsPlayed int // plays so far this turn
}

// TurnResult describes a successful end of turn
type TurnResult struct {
	Outcome    entities.Outcome
	CardsDrawn int
	State      *Snapshot
}

// Game is a single player game of The Game. It is not safe for concurrent use;
// Manager serializes access to each game it holds.
type Game struct {
	ID        string
	PlayerID  string
	StartedAt time.Time

	stacks      [stackCount]*entities.CardStack
	deck        *entities.Deck
	hand        *entities.Hand
	minPlays    int
	cardsPlayed int
	totalPlayed int
	turn        int
	outcome     entities.Outcome
	completedAt time.Time
	history     []entities.ActionRecord
	now         func() time.Time
}

// NewGame sets up the stacks, deck and hand and draws the first hand
func NewGame(playerID string, opts Options) *Game {
	if opts.HandSize <= 0 {
		opts.HandSize = entities.DefaultHandSize
	}
	if opts.MinPlays <= 0 {
		opts.MinPlays = DefaultMinPlays
	}

	deck := opts.Deck
	if deck == nil {
		deck = entities.NewDeck(opts.Rand, opts.Shuffle)
	}

	g := &Game{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		deck:     deck,
		hand:     entities.NewHand(opts.HandSize),
		minPlays: opts.MinPlays,
		turn:     1,
		now:      time.Now,
	}
	for i := range g.stacks {
		g.stacks[i] = entities.NewCardStack(StackID(i + 1).Direction())
	}
	g.StartedAt = g.now()

	g.hand.Draw(g.deck)
	return g
}

// PlayCard moves card from the hand onto the target stack. Either the push and
// the removal from the hand both happen, or nothing changes.
func (g *Game) PlayCard(card entities.Card, target StackID) (*PlayResult, error) {
	if g.IsOver() {
		return nil, g.endedError()
	}

	rec := g.newRecord(entities.ActionPlayCard)
	rec.Card = card
	rec.Stack = int(target)

	result, err := g.playCard(card, target)
	if err != nil {
		rec.Error = err.Error()
	}
	g.history = append(g.history, rec)

	return result, err
}

func (g *Game) playCard(card entities.Card, target StackID) (*PlayResult, error) {
	if !target.IsValid() {
		return nil, types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("no such target stack: %d", target))
	}
	if !g.hand.Contains(card) {
		return nil, types.NewGameError(types.ErrInvalidAction, fmt.Sprintf("card %d is not in your hand", card))
	}

	stack := g.stacks[target-1]
	if err := stack.Push(card); err != nil {
		return nil, err
	}
	g.hand.Remove(card)
	g.cardsPlayed++
	g.totalPlayed++

	return &PlayResult{
		Card:        card,
		Stack:       target,
		NewTop:      stack.Top(),
		CardsPlayed: g.cardsPlayed,
	}, nil
}

// EndTurn closes the current turn. A turn with fewer than the minimum plays
// may only end when no legal move is left, and ending it that way loses.
func (g *Game) EndTurn() (*TurnResult, error) {
	if g.IsOver() {
		return nil, g.endedError()
	}

	rec := g.newRecord(entities.ActionEndTurn)

	result, err := g.endTurn()
	if err != nil {
		rec.Error = err.Error()
	} else {
		rec.Outcome = result.Outcome
	}
	g.history = append(g.history, rec)

	return result, err
}

func (g *Game) endTurn() (*TurnResult, error) {
	canMove := g.CanMakeMove()
	if g.cardsPlayed < g.minPlays && canMove {
		return nil, types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("illegal end of turn: play at least %d cards, %d played", g.minPlays, g.cardsPlayed))
	}

	result := &TurnResult{}
	switch {
	case g.hand.IsEmpty() && g.deck.IsEmpty():
		g.finish(entities.OutcomeWon)
		result.Outcome = entities.OutcomeWon
	case g.cardsPlayed < g.minPlays && !canMove:
		g.finish(entities.OutcomeLost)
		result.Outcome = entities.OutcomeLost
	default:
		result.CardsDrawn = g.hand.Draw(g.deck)
		g.cardsPlayed = 0
		g.turn++
		result.Outcome = entities.OutcomeTurnContinues
	}

	result.State = g.State()
	return result, nil
}

// Abandon ends the game without a win or loss being reached
func (g *Game) Abandon() error {
	if g.IsOver() {
		return g.endedError()
	}
	g.finish(entities.OutcomeAbandoned)

	rec := g.newRecord(entities.ActionAbandon)
	rec.Outcome = entities.OutcomeAbandoned
	g.history = append(g.history, rec)
	return nil
}

func (g *Game) finish(outcome entities.Outcome) {
	g.outcome = outcome
	g.completedAt = g.now()
}

func (g *Game) endedError() error {
	return types.NewGameError(types.ErrGameAlreadyEnded, fmt.Sprintf("game is over: %s", g.outcome))
}

func (g *Game) newRecord(actionType entities.ActionType) entities.ActionRecord {
	return entities.ActionRecord{
		GameID: g.ID,
		Index:  len(g.history),
		Turn:   g.turn,
		Type:   actionType,
		At:     g.now(),
	}
}

// CanMakeMove reports whether any held card can be played on any stack
func (g *Game) CanMakeMove() bool {
	return g.hand.CanMakeMove(g.upStacks(), g.downStacks())
}

// LegalMoves lists every legal placement, ordered by card then stack
func (g *Game) LegalMoves() []Move {
	var moves []Move
	for _, card := range g.hand.Cards() {
		for i, stack := range g.stacks {
			if stack.Accepts(card) {
				moves = append(moves, Move{Card: card, Stack: StackID(i + 1)})
			}
		}
	}
	return moves
}

func (g *Game) upStacks() []*entities.CardStack {
	return g.stacks[:DownStackOne-1]
}

func (g *Game) downStacks() []*entities.CardStack {
	return g.stacks[DownStackOne-1:]
}

// CardsPlayed returns the number of cards played in the current turn
func (g *Game) CardsPlayed() int {
	return g.cardsPlayed
}

// Outcome returns the terminal outcome, or "" while the game is in progress
func (g *Game) Outcome() entities.Outcome {
	return g.outcome
}

// IsOver reports whether the game has reached a terminal outcome
func (g *Game) IsOver() bool {
	return g.outcome.IsTerminal()
}

// IsWon reports whether the game was won
func (g *Game) IsWon() bool {
	return g.outcome == entities.OutcomeWon
}

// IsLost reports whether the game was lost
func (g *Game) IsLost() bool {
	return g.outcome == entities.OutcomeLost
}

// History returns a copy of every action recorded so far
func (g *Game) History() []entities.ActionRecord {
	h := make([]entities.ActionRecord, len(g.history))
	copy(h, g.history)
	return h
}

// Result returns the record of a finished game, or nil while it is in progress
func (g *Game) Result() *entities.GameResult {
	if !g.IsOver() {
		return nil
	}
	return &entities.GameResult{
		GameID:         g.ID,
		PlayerID:       g.PlayerID,
		Outcome:        g.outcome,
		CardsRemaining: g.deck.Remaining() + g.hand.Size(),
		CardsPlayed:    g.totalPlayed,
		Turns:          g.turn,
		StartedAt:      g.StartedAt,
		CompletedAt:    g.completedAt,
	}
}
