package outbox

import (
	"encoding/json"
	"strings"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Record is an outbox row persisted inside the same DB transaction as the
// state change it describes. Modules embed it in a model naming their table.
// The relay worker reads pending rows and publishes them to the message bus.
type Record struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at;index"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

// FromEnvelope encodes an envelope as a pending outbox row. The event id
// doubles as the outbox id.
func FromEnvelope(envelope contractsv1.Envelope) (Record, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return Record{}, err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Record{
		OutboxID:     outboxID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       StatusPending,
		CreatedAt:    createdAt,
	}, nil
}
