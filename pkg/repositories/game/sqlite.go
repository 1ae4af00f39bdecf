package game

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/thegame/pkg/db/migrations"
	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/mattn/go-sqlite3"
)

const resultColumns = `game_id, player_id, outcome, cards_remaining, cards_played, turns, started_at, completed_at`

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at dbPath and applies the results schema
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	migrator := migrations.NewEmbeddedMigrator(db)
	if _, err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveGameResult stores a game result
func (r *SQLiteRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	query := `INSERT INTO game_results (` + resultColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		result.GameID, result.PlayerID, string(result.Outcome),
		result.CardsRemaining, result.CardsPlayed, result.Turns,
		result.StartedAt.UTC(), result.CompletedAt.UTC())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrDuplicateResult
		}
		return err
	}
	return nil
}

// GetPlayerResults retrieves game results for a player
func (r *SQLiteRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.GameResult, error) {
	query := `
		SELECT ` + resultColumns + `
		FROM game_results
		WHERE player_id = ?
		ORDER BY completed_at DESC, rowid DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, playerID, sqliteLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

// GetRecentResults retrieves the most recent results of every player
func (r *SQLiteRepository) GetRecentResults(ctx context.Context, limit int) ([]*entities.GameResult, error) {
	query := `
		SELECT ` + resultColumns + `
		FROM game_results
		ORDER BY completed_at DESC, rowid DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sqliteLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

// sqliteLimit maps "no limit" onto SQLite's LIMIT -1
func sqliteLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// rowScanner is satisfied by *sql.Rows and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*entities.GameResult, error) {
	var (
		result  entities.GameResult
		outcome string
	)
	err := row.Scan(
		&result.GameID, &result.PlayerID, &outcome,
		&result.CardsRemaining, &result.CardsPlayed, &result.Turns,
		&result.StartedAt, &result.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	result.Outcome = entities.Outcome(outcome)
	return &result, nil
}

func scanResults(rows *sql.Rows) ([]*entities.GameResult, error) {
	results := []*entities.GameResult{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
