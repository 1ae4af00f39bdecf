package entities

import "sort"

// DefaultHandSize is the hand size for a single player
const DefaultHandSize = 8

// Hand holds the player's cards. It never holds more than maxSize cards
// and never holds the same value twice.
type Hand struct {
	cards   map[Card]struct{}
	maxSize int
}

// NewHand creates an empty hand
func NewHand(maxSize int) *Hand {
	return &Hand{
		cards:   make(map[Card]struct{}, maxSize),
		maxSize: maxSize,
	}
}

// Draw fills the hand from the deck until it is full or the deck runs out.
// It returns the number of cards drawn.
func (h *Hand) Draw(deck *Deck) int {
	drawn := 0
	for len(h.cards) < h.maxSize {
		card, ok := deck.Draw()
		if !ok {
			break
		}
		h.cards[card] = struct{}{}
		drawn++
	}
	return drawn
}

// Remove takes card out of the hand. Removing an absent card does nothing.
func (h *Hand) Remove(card Card) {
	delete(h.cards, card)
}

// Contains reports whether card is in the hand
func (h *Hand) Contains(card Card) bool {
	_, ok := h.cards[card]
	return ok
}

// Size returns the number of cards held
func (h *Hand) Size() int {
	return len(h.cards)
}

// MaxSize returns the most cards the hand can hold
func (h *Hand) MaxSize() int {
	return h.maxSize
}

// IsEmpty reports whether the hand holds no cards
func (h *Hand) IsEmpty() bool {
	return len(h.cards) == 0
}

// Cards returns the held cards in ascending order
func (h *Hand) Cards() []Card {
	cards := make([]Card, 0, len(h.cards))
	for c := range h.cards {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i] < cards[j] })
	return cards
}

// Copy returns an independent hand with the same cards
func (h *Hand) Copy() *Hand {
	c := NewHand(h.maxSize)
	for card := range h.cards {
		c.cards[card] = struct{}{}
	}
	return c
}

// CanMakeMove reports whether any held card can legally be pushed onto any of
// the given stacks. It applies exactly the stacks' own rule and mutates nothing.
func (h *Hand) CanMakeMove(upStacks, downStacks []*CardStack) bool {
	return h.canPlayOn(upStacks) || h.canPlayOn(downStacks)
}

func (h *Hand) canPlayOn(stacks []*CardStack) bool {
	for _, stack := range stacks {
		for card := range h.cards {
			if stack.Accepts(card) {
				return true
			}
		}
	}
	return false
}
