package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"
	"agentlists/contexts/list-distribution/list-service/adapters/memory"
	"agentlists/contexts/list-distribution/list-service/application/workers"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topics []string
	events []ports.EventEnvelope
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func seedOutbox(t *testing.T, store *memory.Store) {
	t.Helper()
	at := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	err := store.InsertBatch(context.Background(), []entities.DistributedRecord{
		{ID: "r1", FirstName: "Ada", Phone: "1", AssignedAgentID: "a1", UploadBatch: "batch_1", RowNumber: 1, CreatedAt: at},
	}, contractsv1.Envelope{
		EventID:      "evt-1",
		EventType:    contractsv1.EventTypeBatchDistributed,
		OccurredAt:   at,
		PartitionKey: "batch_1",
		Data:         []byte(`{"upload_batch":"batch_1","total_items":1}`),
	})
	require.NoError(t, err)
}

func TestOutboxRelayPublishesOnce(t *testing.T) {
	store := memory.NewStore(nil)
	seedOutbox(t, store)
	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	published, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, workers.DefaultTopic, publisher.topics[0])
	assert.Equal(t, "evt-1", publisher.events[0].EventID)
	assert.JSONEq(t, `{"upload_batch":"batch_1","total_items":1}`, string(publisher.events[0].Data))

	published, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
	assert.Len(t, publisher.events, 1)
}

func TestOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	store := memory.NewStore(nil)
	seedOutbox(t, store)
	relay := workers.OutboxRelay{Outbox: store, Publisher: &capturePublisher{err: errors.New("broker down")}, Topic: "custom"}

	_, err := relay.RunOnce(context.Background())
	require.Error(t, err)

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
