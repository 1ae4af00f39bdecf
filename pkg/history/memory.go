package history

import (
	"context"
	"sync"

	"github.com/fadedpez/thegame/pkg/entities"
)

// MemoryPublisher keeps every published record in memory
type MemoryPublisher struct {
	mu      sync.RWMutex
	records []entities.ActionRecord
}

// NewMemoryPublisher creates an empty in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish appends the record
func (p *MemoryPublisher) Publish(ctx context.Context, record entities.ActionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.records = append(p.records, record)
	return nil
}

// Records returns a copy of everything published so far
func (p *MemoryPublisher) Records() []entities.ActionRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()

	records := make([]entities.ActionRecord, len(p.records))
	copy(records, p.records)
	return records
}

// GameRecords returns the records of one game in publish order
func (p *MemoryPublisher) GameRecords(gameID string) []entities.ActionRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var records []entities.ActionRecord
	for _, r := range p.records {
		if r.GameID == gameID {
			records = append(records, r)
		}
	}
	return records
}

// Close is a no-op
func (p *MemoryPublisher) Close() error {
	return nil
}
