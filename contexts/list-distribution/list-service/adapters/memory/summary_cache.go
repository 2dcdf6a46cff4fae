package memory

import (
	"context"
	"sync"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	"agentlists/contexts/list-distribution/list-service/ports"
)

// SummaryCache keeps batch aggregates in process memory.
type SummaryCache struct {
	mu         sync.RWMutex
	aggregates []entities.BatchAggregate
	valid      bool
	generation int64
}

func NewSummaryCache() *SummaryCache {
	return &SummaryCache{}
}

func (c *SummaryCache) GetAggregates(_ context.Context) ([]entities.BatchAggregate, int64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return nil, c.generation, false, nil
	}
	return append([]entities.BatchAggregate(nil), c.aggregates...), c.generation, true, nil
}

// SetAggregates is a no-op when Invalidate ran after generation was read.
func (c *SummaryCache) SetAggregates(_ context.Context, generation int64, aggregates []entities.BatchAggregate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return nil
	}
	c.aggregates = append([]entities.BatchAggregate(nil), aggregates...)
	c.valid = true
	return nil
}

func (c *SummaryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aggregates = nil
	c.valid = false
	c.generation++
	return nil
}

var _ ports.SummaryCache = (*SummaryCache)(nil)
