package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/domain/services"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/google/uuid"
)

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

type Store struct {
	mu sync.RWMutex

	records  map[string]entities.DistributedRecord
	outbox   map[string]outboxRecord
	batchSeq int64
}

func NewStore(seed []entities.DistributedRecord) *Store {
	records := make(map[string]entities.DistributedRecord, len(seed))
	for _, record := range seed {
		records[record.ID] = record
	}
	return &Store{
		records: records,
		outbox:  make(map[string]outboxRecord),
	}
}

func (s *Store) InsertBatch(_ context.Context, records []entities.DistributedRecord, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		if _, exists := s.records[record.ID]; exists {
			return fmt.Errorf("list record %s already exists", record.ID)
		}
	}
	for _, record := range records {
		s.records[record.ID] = record
	}
	s.appendOutboxLocked(event, payload)
	return nil
}

func (s *Store) ListRecords(_ context.Context, filter entities.RecordFilter) ([]entities.DistributedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.DistributedRecord, 0)
	for _, record := range s.records {
		if filter.AgentID != "" && record.AssignedAgentID != filter.AgentID {
			continue
		}
		if filter.UploadBatch != "" && record.UploadBatch != filter.UploadBatch {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		items = append(items, record)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		if items[i].UploadBatch != items[j].UploadBatch {
			return items[i].UploadBatch < items[j].UploadBatch
		}
		return items[i].RowNumber < items[j].RowNumber
	})
	return items, nil
}

func (s *Store) GetRecord(_ context.Context, recordID string) (entities.DistributedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[strings.TrimSpace(recordID)]
	if !ok {
		return entities.DistributedRecord{}, domainerrors.ErrRecordNotFound
	}
	return record, nil
}

func (s *Store) UpdateRecordStatus(
	_ context.Context,
	recordID string,
	status entities.RecordStatus,
	updatedAt time.Time,
) (entities.DistributedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[strings.TrimSpace(recordID)]
	if !ok {
		return entities.DistributedRecord{}, domainerrors.ErrRecordNotFound
	}
	record.Status = status
	record.UpdatedAt = updatedAt.UTC()
	s.records[record.ID] = record
	return record, nil
}

func (s *Store) DeleteBatch(_ context.Context, uploadBatch string, buildEvent ports.DeletedEventBuilder) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []string
	for id, record := range s.records {
		if record.UploadBatch == uploadBatch {
			matched = append(matched, id)
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}

	event, err := buildEvent(int64(len(matched)))
	if err != nil {
		return 0, err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return 0, err
	}
	for _, id := range matched {
		delete(s.records, id)
	}
	s.appendOutboxLocked(event, payload)
	return int64(len(matched)), nil
}

func (s *Store) AggregateBatches(_ context.Context) ([]entities.BatchAggregate, error) {
	s.mu.RLock()
	records := make([]entities.DistributedRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	s.mu.RUnlock()

	return services.AggregateBatches(records), nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt != nil {
			continue
		}
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].OutboxID < items[j].OutboxID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[outboxID]
	if !ok {
		return fmt.Errorf("outbox row %s not found", outboxID)
	}
	at := publishedAt.UTC()
	row.PublishedAt = &at
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) appendOutboxLocked(event ports.EventEnvelope, payload []byte) {
	outboxID := event.EventID
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	s.outbox[outboxID] = outboxRecord{
		OutboxID:     outboxID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt.UTC(),
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) NewBatchID(_ context.Context, at time.Time) (string, error) {
	s.mu.Lock()
	s.batchSeq++
	seq := s.batchSeq
	s.mu.Unlock()
	suffix := strconv.FormatInt(seq, 36)
	if len(suffix) < 9 {
		suffix = strings.Repeat("0", 9-len(suffix)) + suffix
	}
	return fmt.Sprintf("batch_%d_%s", at.UnixMilli(), suffix), nil
}

var _ ports.RecordRepository = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
var _ ports.BatchIDGenerator = (*Store)(nil)
