package textui

import (
	"fmt"

	"github.com/fadedpez/thegame/internal/types"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/games/thegame"
)

// Messages maps game outcomes and error codes to the text shown to the player
var Messages = struct {
	Outcomes map[entities.Outcome]string
	Errors   map[types.ErrorCode]string
	Fallback string
}{
	Outcomes: map[entities.Outcome]string{
		entities.OutcomeWon:       "Congratulations you beat The Game!",
		entities.OutcomeLost:      "Sorry you lost against The Game :( !",
		entities.OutcomeAbandoned: "You left The Game.",
	},
	Errors: map[types.ErrorCode]string{
		types.ErrInvalidAction:    "You can't make this action, please try again!",
		types.ErrMalformedInput:   "Could not get input please try again",
		types.ErrGameAlreadyEnded: "The Game is already over.",
		types.ErrGameNotFound:     "The Game is already over.",
	},
	Fallback: "Something went wrong, please try again!",
}

// OutcomeMessage returns the text for an outcome, or "" if none is shown
func OutcomeMessage(outcome entities.Outcome) string {
	return Messages.Outcomes[outcome]
}

// ErrorMessage returns the text shown for err
func ErrorMessage(err error) string {
	if msg, ok := Messages.Errors[types.CodeOf(err)]; ok {
		return msg
	}
	return Messages.Fallback
}

// PlayedMessage confirms a successful play
func PlayedMessage(card entities.Card, stack thegame.StackID) string {
	return fmt.Sprintf("Played card: %d onto card stack: %d", card, stack)
}
