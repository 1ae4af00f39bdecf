package entities

import "strconv"

// Card values. The lowest and highest values only ever seed stacks.
const (
	LowestCard    Card = 1
	HighestCard   Card = 99
	MinPlayable   Card = 2
	MaxPlayable   Card = 98
	BackwardJump       = 10
	PlayableCount      = int(MaxPlayable - MinPlayable + 1)
)

// Card represents a numbered card. Cards compare and hash by value.
type Card int

// Value returns the card's numeric value
func (c Card) Value() int {
	return int(c)
}

// IsPlayable reports whether the card can be drawn and held
func (c Card) IsPlayable() bool {
	return c >= MinPlayable && c <= MaxPlayable
}

// IsValid reports whether the card is within the full card range, seeds included
func (c Card) IsValid() bool {
	return c >= LowestCard && c <= HighestCard
}

// String returns the string representation of the card
func (c Card) String() string {
	return strconv.Itoa(int(c))
}

// Direction is the direction a stack's values must travel
type Direction string

const (
	Up   Direction = "UP"
	Down Direction = "DOWN"
)

// Seed returns the card a stack of this direction starts with
func (d Direction) Seed() Card {
	if d == Down {
		return HighestCard
	}
	return LowestCard
}
