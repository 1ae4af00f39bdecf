package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fadedpez/thegame/pkg/entities"
	"github.com/redis/go-redis/v9"
)

// RedisPublisher pushes action records as JSON onto a Redis list
type RedisPublisher struct {
	client *redis.Client
	queue  string
}

// NewRedisPublisher wraps an existing client. An empty queue uses DefaultQueueName.
func NewRedisPublisher(client *redis.Client, queue string) *RedisPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisPublisher{client: client, queue: queue}
}

// ConnectRedis creates a client for addr and checks that the server answers
func ConnectRedis(ctx context.Context, addr string, db int, queue string) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return NewRedisPublisher(client, queue), nil
}

// Queue returns the name of the list records are pushed onto
func (p *RedisPublisher) Queue() string {
	return p.queue
}

// Publish serializes the record and pushes it onto the queue
func (p *RedisPublisher) Publish(ctx context.Context, record entities.ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal action record: %w", err)
	}

	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}

// Close closes the underlying client
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
