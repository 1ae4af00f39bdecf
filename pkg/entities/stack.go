package entities

import (
	"fmt"

	"github.com/fadedpez/thegame/internal/types"
)

// CardStack is one of the ordered piles cards are played onto.
// It is never empty: construction seeds it with its direction's seed card.
type CardStack struct {
	direction Direction
	cards     []Card
}

// NewCardStack creates a stack seeded for the given direction
func NewCardStack(direction Direction) *CardStack {
	return &CardStack{
		direction: direction,
		cards:     []Card{direction.Seed()},
	}
}

// Direction returns the stack's direction
func (s *CardStack) Direction() Direction {
	return s.direction
}

// Top returns the card on top of the stack
func (s *CardStack) Top() Card {
	return s.cards[len(s.cards)-1]
}

// Len returns the number of cards on the stack, seed included
func (s *CardStack) Len() int {
	return len(s.cards)
}

// Cards returns a copy of the stack from bottom to top
func (s *CardStack) Cards() []Card {
	cards := make([]Card, len(s.cards))
	copy(cards, s.cards)
	return cards
}

// DistanceToTop returns the absolute difference between card and the top card
func (s *CardStack) DistanceToTop(card Card) int {
	d := int(s.Top()) - int(card)
	if d < 0 {
		return -d
	}
	return d
}

// Accepts reports whether card may be pushed. A card moving with the stack's
// direction is always legal; one moving against it only by exactly BackwardJump.
func (s *CardStack) Accepts(card Card) bool {
	return s.check(card) == nil
}

// Push places card on top of the stack, or returns an INVALID_ACTION error
// and leaves the stack unchanged.
func (s *CardStack) Push(card Card) error {
	if err := s.check(card); err != nil {
		return err
	}
	s.cards = append(s.cards, card)
	return nil
}

func (s *CardStack) check(card Card) error {
	top := s.Top()

	switch s.direction {
	case Up:
		if card > top {
			return nil
		}
		if top-card == BackwardJump {
			return nil
		}
		if card < top {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("can't play %d on %d: distance must be exactly %d", card, top, BackwardJump))
		}
		return types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("can't play %d on %d: card must be greater", card, top))
	case Down:
		if card < top {
			return nil
		}
		if card-top == BackwardJump {
			return nil
		}
		if card > top {
			return types.NewGameError(types.ErrInvalidAction,
				fmt.Sprintf("can't play %d on %d: distance must be exactly %d", card, top, BackwardJump))
		}
		return types.NewGameError(types.ErrInvalidAction,
			fmt.Sprintf("can't play %d on %d: card must be less", card, top))
	}

	return types.NewGameError(types.ErrInternalError, fmt.Sprintf("unknown stack direction %q", s.direction))
}
