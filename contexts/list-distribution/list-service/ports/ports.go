package ports

import (
	"context"
	"io"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
)

// RecordRepository persists distributed records. InsertBatch and DeleteBatch
// write their outbox event in the same transaction as the record change.
type RecordRepository interface {
	InsertBatch(ctx context.Context, records []entities.DistributedRecord, event EventEnvelope) error
	ListRecords(ctx context.Context, filter entities.RecordFilter) ([]entities.DistributedRecord, error)
	GetRecord(ctx context.Context, recordID string) (entities.DistributedRecord, error)
	UpdateRecordStatus(ctx context.Context, recordID string, status entities.RecordStatus, updatedAt time.Time) (entities.DistributedRecord, error)
	// DeleteBatch writes no outbox row when nothing matched.
	DeleteBatch(ctx context.Context, uploadBatch string, buildEvent DeletedEventBuilder) (int64, error)
	AggregateBatches(ctx context.Context) ([]entities.BatchAggregate, error)
}

// DeletedEventBuilder builds the outbox event once the deleted count is known.
type DeletedEventBuilder func(deleted int64) (EventEnvelope, error)

// AgentDirectory is the read side of the agent registry.
type AgentDirectory interface {
	// ListActiveAgents returns active agents in distribution order.
	ListActiveAgents(ctx context.Context) ([]entities.AgentRef, error)
	ListAgents(ctx context.Context) ([]entities.AgentRef, error)
	GetAgent(ctx context.Context, agentID string) (entities.AgentRef, error)
}

// SummaryCache stores batch aggregates between uploads and deletions.
// Every Invalidate advances the cache generation. GetAggregates reports the
// generation it observed, and SetAggregates drops the write when the
// generation has moved since, so a read that raced a write never caches
// aggregates loaded before that write.
type SummaryCache interface {
	GetAggregates(ctx context.Context) (aggregates []entities.BatchAggregate, generation int64, ok bool, err error)
	SetAggregates(ctx context.Context, generation int64, aggregates []entities.BatchAggregate) error
	Invalidate(ctx context.Context) error
}

// FileStager keeps an uploaded file on disk for the duration of one upload.
type FileStager interface {
	Stage(ctx context.Context, name string, body io.Reader, maxBytes int64) (StagedFile, error)
	Remove(ctx context.Context, file StagedFile) error
}

type StagedFile struct {
	Path string
	Size int64
}

type SpreadsheetFormat string

const (
	FormatCSV  SpreadsheetFormat = "csv"
	FormatXLSX SpreadsheetFormat = "xlsx"
	FormatXLS  SpreadsheetFormat = "xls"
)

// SpreadsheetParser turns a staged file into header-keyed rows.
type SpreadsheetParser interface {
	Parse(ctx context.Context, file StagedFile, format SpreadsheetFormat) ([]entities.RawRow, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// BatchIDGenerator issues opaque upload batch identifiers.
type BatchIDGenerator interface {
	NewBatchID(ctx context.Context, at time.Time) (string, error)
}

// UploadMetrics records upload outcomes.
type UploadMetrics interface {
	ObserveUpload(outcome string, records int, duration time.Duration)
	ObserveSummaryCache(hit bool)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
