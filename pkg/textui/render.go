package textui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/fadedpez/thegame/pkg/games/thegame"
	"github.com/fadedpez/thegame/pkg/services/statistics"
)

// RenderState writes the stacks, the deck count and the hand
func RenderState(w io.Writer, state *thegame.Snapshot) error {
	var b strings.Builder

	b.WriteString("Down stacks top cards: ")
	writeTops(&b, state.StacksByDirection(entities.Down))
	b.WriteString("Up stacks top cards: ")
	writeTops(&b, state.StacksByDirection(entities.Up))
	fmt.Fprintf(&b, "The amount of cards remaining in the deck is: %d\n", state.DeckRemaining)

	b.WriteString("Your hand contains the following cards: ")
	for _, card := range state.Hand {
		fmt.Fprintf(&b, "%d ", card)
	}
	b.WriteString("\n")

	if state.CardsPlayed < state.MinPlays {
		fmt.Fprintf(&b, "Cards played this turn: %d of %d\n", state.CardsPlayed, state.MinPlays)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTops(b *strings.Builder, stacks []thegame.StackView) {
	for _, s := range stacks {
		fmt.Fprintf(b, "%d ", s.Top)
	}
	b.WriteString("\n")
}

// RenderHint lists the legal moves as input tokens
func RenderHint(w io.Writer, moves []thegame.Move) error {
	if len(moves) == 0 {
		_, err := io.WriteString(w, "No card can be played, end your turn with S\n")
		return err
	}

	tokens := make([]string, 0, len(moves))
	for _, m := range moves {
		tokens = append(tokens, fmt.Sprintf("C%d-%d", m.Card, m.Stack))
	}
	_, err := fmt.Fprintf(w, "Possible moves: %s\n", strings.Join(tokens, " "))
	return err
}

// RenderStatistics summarizes a player's finished games
func RenderStatistics(w io.Writer, stats *entities.PlayerStatistics) error {
	if stats.GamesPlayed == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Games played: %d, won: %d (%.1f%%), best game: %d cards left, average: %.1f cards left\n",
		stats.GamesPlayed, stats.Wins, stats.WinRate(), stats.BestRemaining, stats.AverageRemaining())
	return err
}

// RenderLeaderboard writes one page of the leaderboard
func RenderLeaderboard(w io.Writer, board *statistics.Leaderboard) error {
	var b strings.Builder

	if board.TotalPlayers == 0 {
		b.WriteString("Nobody has finished a game yet\n")
	} else {
		fmt.Fprintf(&b, "Leaderboard (page %d of %d)\n", board.CurrentPage, board.TotalPages)
		for _, p := range board.Players {
			fmt.Fprintf(&b, "%3d. %-20s wins: %-4d played: %-4d win rate: %5.1f%%  best: %d left",
				p.Rank, p.PlayerID, p.Wins, p.GamesPlayed, p.WinRate, p.BestRemaining)
			if p.IsTopPlayer {
				b.WriteString("  (most games)")
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderResults lists finished games, one per line
func RenderResults(w io.Writer, results []*entities.GameResult) error {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s  %-20s %-15s %2d cards left after %d turns\n",
			r.CompletedAt.Format("2006-01-02 15:04"), r.PlayerID, r.Outcome, r.CardsRemaining, r.Turns)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
