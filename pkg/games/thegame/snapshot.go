package thegame

import "github.com/fadedpez/thegame/pkg/entities"

// StackView is the visible part of one stack
type StackView struct {
	ID        StackID            `json:"id"`
	Direction entities.Direction `json:"direction"`
	Top       entities.Card      `json:"top"`
	Size      int                `json:"size"`
}

// Snapshot is a read-only copy of a game's state. Changing it never affects
// the game it was taken from.
type Snapshot struct {
	GameID        string           `json:"game_id"`
	PlayerID      string           `json:"player_id"`
	Stacks        []StackView      `json:"stacks"`
	Hand          []entities.Card  `json:"hand"`
	DeckRemaining int              `json:"deck_remaining"`
	CardsPlayed   int              `json:"cards_played"`
	MinPlays      int              `json:"min_plays"`
	Turn          int              `json:"turn"`
	Outcome       entities.Outcome `json:"outcome,omitempty"`
}

// State returns a snapshot of the current game
func (g *Game) State() *Snapshot {
	stacks := make([]StackView, 0, len(g.stacks))
	for i, stack := range g.stacks {
		stacks = append(stacks, StackView{
			ID:        StackID(i + 1),
			Direction: stack.Direction(),
			Top:       stack.Top(),
			Size:      stack.Len(),
		})
	}

	return &Snapshot{
		GameID:        g.ID,
		PlayerID:      g.PlayerID,
		Stacks:        stacks,
		Hand:          g.hand.Cards(),
		DeckRemaining: g.deck.Remaining(),
		CardsPlayed:   g.cardsPlayed,
		MinPlays:      g.minPlays,
		Turn:          g.turn,
		Outcome:       g.outcome,
	}
}

// Stack returns the view of one stack, or false if id names no stack
func (s *Snapshot) Stack(id StackID) (StackView, bool) {
	for _, v := range s.Stacks {
		if v.ID == id {
			return v, true
		}
	}
	return StackView{}, false
}

// StacksByDirection returns the views of the stacks going in dir, in id order
func (s *Snapshot) StacksByDirection(dir entities.Direction) []StackView {
	var views []StackView
	for _, v := range s.Stacks {
		if v.Direction == dir {
			views = append(views, v)
		}
	}
	return views
}
