package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the versioned integration event shape published by the relay.
// Field names are part of the wire contract and must stay backward compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

const (
	EventTypeBatchDistributed = "lists.batch_distributed"
	EventTypeBatchDeleted     = "lists.batch_deleted"
)

// BatchDistributedData is the payload of lists.batch_distributed.
type BatchDistributedData struct {
	UploadBatch string            `json:"upload_batch"`
	TotalItems  int               `json:"total_items"`
	Allocations []AgentAllocation `json:"allocations"`
}

type AgentAllocation struct {
	AgentID       string `json:"agent_id"`
	ItemsAssigned int    `json:"items_assigned"`
}

// BatchDeletedData is the payload of lists.batch_deleted.
type BatchDeletedData struct {
	UploadBatch  string `json:"upload_batch"`
	DeletedCount int64  `json:"deleted_count"`
}
