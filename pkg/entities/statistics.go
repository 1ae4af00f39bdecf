package entities

import "time"

// PlayerStatistics represents aggregated results for a player
type PlayerStatistics struct {
	PlayerID         string
	GamesPlayed      int
	Wins             int
	Losses           int
	Abandoned        int
	BestRemaining    int // fewest cards left in any game; 0 for a win
	TotalRemaining   int
	TotalCardsPlayed int
	LastPlayed       time.Time
}

// WinRate calculates the player's win rate as a percentage
func (s *PlayerStatistics) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100.0
}

// AverageRemaining calculates the mean number of cards left at the end of a game
func (s *PlayerStatistics) AverageRemaining() float64 {
	if s.GamesPlayed == 0 {
		return 0.0
	}
	return float64(s.TotalRemaining) / float64(s.GamesPlayed)
}
