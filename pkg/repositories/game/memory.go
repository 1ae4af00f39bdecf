package game

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/thegame/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// results in save order
	results []*entities.GameResult
	// game ids already saved
	saved map[string]struct{}
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		saved: make(map[string]struct{}),
	}
}

// SaveGameResult stores a copy of result
func (r *MemoryRepository) SaveGameResult(ctx context.Context, result *entities.GameResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.saved[result.GameID]; exists {
		return ErrDuplicateResult
	}
	stored := *result
	r.results = append(r.results, &stored)
	r.saved[result.GameID] = struct{}{}
	return nil
}

// GetPlayerResults retrieves game results for a player
func (r *MemoryRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestFirst(limit, func(res *entities.GameResult) bool {
		return res.PlayerID == playerID
	}), nil
}

// GetRecentResults retrieves the most recent results of every player
func (r *MemoryRepository) GetRecentResults(ctx context.Context, limit int) ([]*entities.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.newestFirst(limit, func(*entities.GameResult) bool { return true }), nil
}

// newestFirst copies the matching results ordered by completion time, latest
// save first among equal times. Callers must hold the lock.
func (r *MemoryRepository) newestFirst(limit int, match func(*entities.GameResult) bool) []*entities.GameResult {
	results := []*entities.GameResult{}
	for i := len(r.results) - 1; i >= 0; i-- {
		if match(r.results[i]) {
			c := *r.results[i]
			results = append(results, &c)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
