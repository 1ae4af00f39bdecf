// Package history ships the action log of running games to an external sink
package history

import (
	"context"

	"github.com/fadedpez/thegame/pkg/entities"
)

// DefaultQueueName is the list the Redis publisher pushes action records onto
const DefaultQueueName = "thegame_actions"

// Publisher sends action records somewhere they can be replayed or audited
type Publisher interface {
	Publish(ctx context.Context, record entities.ActionRecord) error
	Close() error
}
