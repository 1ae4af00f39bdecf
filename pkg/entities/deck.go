package entities

import (
	"math/rand"
	"time"
)

// ShuffleMode selects how a new deck is ordered
type ShuffleMode string

const (
	// ShuffleUniform is a Fisher-Yates shuffle over the whole deck
	ShuffleUniform ShuffleMode = "uniform"
	// ShuffleLegacy swaps LegacySwaps random pairs drawn from the first
	// LegacySwapRange positions. It is not uniform and the last card never moves.
	ShuffleLegacy ShuffleMode = "legacy"
)

const (
	LegacySwaps     = 180
	LegacySwapRange = 96
)

// Deck is the supply of playable cards not yet drawn. Draw only ever moves
// a cursor forward, so no card is returned twice.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck creates a deck holding every playable card exactly once, ordered by
// the given shuffle. A nil r uses a time-seeded source.
func NewDeck(r *rand.Rand, mode ShuffleMode) *Deck {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cards := make([]Card, 0, PlayableCount)
	for c := MinPlayable; c <= MaxPlayable; c++ {
		cards = append(cards, c)
	}

	d := &Deck{cards: cards}
	switch mode {
	case ShuffleLegacy:
		d.swapShuffle(r, LegacySwaps)
	default:
		r.Shuffle(len(d.cards), func(i, j int) {
			d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
		})
	}

	return d
}

// NewDeckFromCards creates a deck that draws the given cards in order.
// It is meant for reproducing specific game situations.
func NewDeckFromCards(cards []Card) *Deck {
	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c}
}

func (d *Deck) swapShuffle(r *rand.Rand, rounds int) {
	n := LegacySwapRange
	if n > len(d.cards) {
		n = len(d.cards)
	}
	if n == 0 {
		return
	}
	for i := 0; i < rounds; i++ {
		x, y := r.Intn(n), r.Intn(n)
		d.cards[x], d.cards[y] = d.cards[y], d.cards[x]
	}
}

// Draw removes and returns the next card. ok is false once the deck is empty.
func (d *Deck) Draw() (card Card, ok bool) {
	if d.next >= len(d.cards) {
		return 0, false
	}
	card = d.cards[d.next]
	d.next++
	return card, true
}

// Remaining returns the number of undrawn cards
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// IsEmpty reports whether every card has been drawn
func (d *Deck) IsEmpty() bool {
	return d.Remaining() == 0
}
