package entities

import "time"

// ActionType identifies the kind of action a player submitted
type ActionType string

const (
	ActionPlayCard ActionType = "play_card"
	ActionEndTurn  ActionType = "end_turn"
	ActionAbandon  ActionType = "abandon"
)

// ActionRecord is one entry in a game's action history. Rejected actions are
// recorded too, with Error set.
type ActionRecord struct {
	GameID  string     `json:"game_id"`
	Index   int        `json:"index"`
	Turn    int        `json:"turn"`
	Type    ActionType `json:"type"`
	Card    Card       `json:"card,omitempty"`
	Stack   int        `json:"stack,omitempty"`
	Outcome Outcome    `json:"outcome,omitempty"`
	Error   string     `json:"error,omitempty"`
	At      time.Time  `json:"at"`
}

// Accepted reports whether the action was applied
func (r ActionRecord) Accepted() bool {
	return r.Error == ""
}
