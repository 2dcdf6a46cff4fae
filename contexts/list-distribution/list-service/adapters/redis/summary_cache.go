package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKey = "agentlists:lists:batch-aggregates"
	DefaultTTL = 10 * time.Minute
)

// errGenerationMoved aborts a cache write that lost a race with Invalidate.
var errGenerationMoved = errors.New("summary cache generation moved")

// SummaryCache stores batch aggregates as one JSON value. A sibling key
// without expiry holds the generation counter bumped by Invalidate.
type SummaryCache struct {
	client        redis.UniversalClient
	key           string
	generationKey string
	ttl           time.Duration
}

func NewSummaryCache(client redis.UniversalClient, key string, ttl time.Duration) *SummaryCache {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SummaryCache{client: client, key: key, generationKey: key + ":generation", ttl: ttl}
}

type cachedAgentCount struct {
	AgentID        string    `json:"agent_id"`
	Count          int       `json:"count"`
	FirstCreatedAt time.Time `json:"first_created_at"`
	FirstRowNumber int       `json:"first_row_number"`
}

type cachedAggregate struct {
	UploadBatch string             `json:"upload_batch"`
	Agents      []cachedAgentCount `json:"agents"`
}

func (c *SummaryCache) GetAggregates(ctx context.Context) ([]entities.BatchAggregate, int64, bool, error) {
	values, err := c.client.MGet(ctx, c.key, c.generationKey).Result()
	if err != nil {
		return nil, 0, false, err
	}
	generation, err := parseGeneration(values[1])
	if err != nil {
		return nil, 0, false, err
	}
	raw, ok := values[0].(string)
	if !ok {
		return nil, generation, false, nil
	}

	var cached []cachedAggregate
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, generation, false, err
	}
	aggregates := make([]entities.BatchAggregate, 0, len(cached))
	for _, item := range cached {
		agg := entities.BatchAggregate{UploadBatch: item.UploadBatch}
		for _, count := range item.Agents {
			agg.Agents = append(agg.Agents, entities.AgentBatchCount{
				AgentID:        count.AgentID,
				Count:          count.Count,
				FirstCreatedAt: count.FirstCreatedAt.UTC(),
				FirstRowNumber: count.FirstRowNumber,
			})
		}
		aggregates = append(aggregates, agg)
	}
	return aggregates, generation, true, nil
}

// SetAggregates writes under WATCH on the generation key and skips the write
// when Invalidate ran after generation was read.
func (c *SummaryCache) SetAggregates(ctx context.Context, generation int64, aggregates []entities.BatchAggregate) error {
	cached := make([]cachedAggregate, 0, len(aggregates))
	for _, agg := range aggregates {
		item := cachedAggregate{UploadBatch: agg.UploadBatch, Agents: make([]cachedAgentCount, 0, len(agg.Agents))}
		for _, count := range agg.Agents {
			item.Agents = append(item.Agents, cachedAgentCount{
				AgentID:        count.AgentID,
				Count:          count.Count,
				FirstCreatedAt: count.FirstCreatedAt.UTC(),
				FirstRowNumber: count.FirstRowNumber,
			})
		}
		cached = append(cached, item)
	}
	raw, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, c.generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key, raw, c.ttl)
			return nil
		})
		return err
	}, c.generationKey)
	if errors.Is(err, errGenerationMoved) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		pipe.Incr(ctx, c.generationKey)
		return nil
	})
	return err
}

func parseGeneration(value any) (int64, error) {
	raw, ok := value.(string)
	if !ok {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

var _ ports.SummaryCache = (*SummaryCache)(nil)
