package entities

import "time"

// Outcome is the result of ending a turn, or how a game finished
type Outcome string

const (
	OutcomeTurnContinues Outcome = "TURN_CONTINUES"
	OutcomeWon           Outcome = "GAME_WON"
	OutcomeLost          Outcome = "GAME_LOST"
	OutcomeAbandoned     Outcome = "GAME_ABANDONED"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// IsTerminal returns true if no further actions are accepted after this outcome
func (o Outcome) IsTerminal() bool {
	return o == OutcomeWon || o == OutcomeLost || o == OutcomeAbandoned
}

// IsWin returns true if this outcome represents a win
func (o Outcome) IsWin() bool {
	return o == OutcomeWon
}

// GameResult is the record of a finished game
type GameResult struct {
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	Outcome        Outcome   `json:"outcome"`
	CardsRemaining int       `json:"cards_remaining"` // deck plus hand; lower is better
	CardsPlayed    int       `json:"cards_played"`
	Turns          int       `json:"turns"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Duration returns how long the game took
func (r *GameResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
