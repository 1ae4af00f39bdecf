package scheduler

import (
	"context"
	"time"
)

// IdleGames is anything that can close games nobody is playing
type IdleGames interface {
	AbandonIdle(ctx context.Context, maxIdle time.Duration) int
}

// IndexPruner is anything that can drop old monthly result indices
type IndexPruner interface {
	PruneOldIndices(ctx context.Context, retentionMonths int) ([]string, error)
}

// AddIdleGamesTask abandons games idle for longer than maxIdle, checking
// every interval
func (s *Scheduler) AddIdleGamesTask(games IdleGames, maxIdle, interval time.Duration) {
	s.AddTask("idle_games", interval, func(ctx context.Context) error {
		games.AbandonIdle(ctx, maxIdle)
		return nil
	})
}

// AddIndexRetentionTask deletes result indices older than retentionMonths once a day
func (s *Scheduler) AddIndexRetentionTask(pruner IndexPruner, retentionMonths int) {
	logger := s.logger
	s.AddTask("index_pruning", 24*time.Hour, func(ctx context.Context) error {
		deleted, err := pruner.PruneOldIndices(ctx, retentionMonths)
		if len(deleted) > 0 {
			logger.WithFields(map[string]interface{}{
				"indices": deleted,
			}).Info("Pruned %d result indices", len(deleted))
		}
		return err
	})
}
