package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createPostgresResultsTableSQL = `
	CREATE TABLE IF NOT EXISTS game_results (
		game_id TEXT PRIMARY KEY,
		player_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		cards_remaining INTEGER NOT NULL,
		cards_played INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_game_results_player ON game_results(player_id, completed_at DESC)`

// uniqueViolation is the Postgres error code for a duplicate key
const uniqueViolation = "23505"

// PostgresRepository implements the Repository interface on a pgx connection pool
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to databaseURL and creates the results table if needed
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if _, err := pool.Exec(ctx, createPostgresResultsTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating results table: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// SaveGameResult stores a game result
func (r *PostgresRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	query := `INSERT INTO game_results (` + resultColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		result.GameID, result.PlayerID, string(result.Outcome),
		result.CardsRemaining, result.CardsPlayed, result.Turns,
		result.StartedAt, result.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateResult
		}
		return err
	}
	return nil
}

// GetPlayerResults retrieves game results for a player
func (r *PostgresRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.GameResult, error) {
	query := `
		SELECT ` + resultColumns + `
		FROM game_results
		WHERE player_id = $1
		ORDER BY completed_at DESC, created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, playerID, postgresLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// GetRecentResults retrieves the most recent results of every player
func (r *PostgresRepository) GetRecentResults(ctx context.Context, limit int) ([]*entities.GameResult, error) {
	query := `
		SELECT ` + resultColumns + `
		FROM game_results
		ORDER BY completed_at DESC, created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, postgresLimit(limit))
	if err != nil {
		return nil, err
	}
	return collectResults(rows)
}

// postgresLimit maps "no limit" onto LIMIT NULL
func postgresLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}

func collectResults(rows pgx.Rows) ([]*entities.GameResult, error) {
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.GameResult, error) {
		return scanResult(row)
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*entities.GameResult{}
	}
	return results, nil
}

// Close closes the connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
