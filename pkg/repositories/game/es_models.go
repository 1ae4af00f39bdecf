package game

import (
	"time"

	"github.com/fadedpez/thegame/pkg/entities"
)

// ESGameResult represents a game result document in Elasticsearch
type ESGameResult struct {
	GameID         string    `json:"game_id"`
	PlayerID       string    `json:"player_id"`
	Outcome        string    `json:"outcome"`
	Won            bool      `json:"won"`
	CardsRemaining int       `json:"cards_remaining"`
	CardsPlayed    int       `json:"cards_played"`
	Turns          int       `json:"turns"`
	DurationMillis int64     `json:"duration_ms"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
}

const gameIndexMapping = `{
	"mappings": {
		"properties": {
			"game_id": { "type": "keyword" },
			"player_id": { "type": "keyword" },
			"outcome": { "type": "keyword" },
			"won": { "type": "boolean" },
			"cards_remaining": { "type": "integer" },
			"cards_played": { "type": "integer" },
			"turns": { "type": "integer" },
			"duration_ms": { "type": "long" },
			"started_at": { "type": "date" },
			"completed_at": { "type": "date" }
		}
	}
}`

func toESGameResult(r *entities.GameResult) ESGameResult {
	return ESGameResult{
		GameID:         r.GameID,
		PlayerID:       r.PlayerID,
		Outcome:        string(r.Outcome),
		Won:            r.Outcome.IsWin(),
		CardsRemaining: r.CardsRemaining,
		CardsPlayed:    r.CardsPlayed,
		Turns:          r.Turns,
		DurationMillis: r.Duration().Milliseconds(),
		StartedAt:      r.StartedAt,
		CompletedAt:    r.CompletedAt,
	}
}

func (d ESGameResult) toGameResult() *entities.GameResult {
	return &entities.GameResult{
		GameID:         d.GameID,
		PlayerID:       d.PlayerID,
		Outcome:        entities.Outcome(d.Outcome),
		CardsRemaining: d.CardsRemaining,
		CardsPlayed:    d.CardsPlayed,
		Turns:          d.Turns,
		StartedAt:      d.StartedAt,
		CompletedAt:    d.CompletedAt,
	}
}
