//go:build integration

package postgresadapter_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"
	postgresadapter "agentlists/contexts/list-distribution/list-service/adapters/postgres"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/ports"
	"agentlists/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *db.Postgres

func TestMain(m *testing.M) {
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "agentlists",
				"POSTGRES_PASSWORD": "agentlists",
				"POSTGRES_DB":       "agentlists",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("container host: %v", err)
	}
	if host == "" || host == "null" {
		host = "localhost"
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://agentlists:agentlists@%s:%s/agentlists?sslmode=disable", host, port.Port())
	testDB, err = db.Connect(dsn, db.Options{MaxOpenConns: 4})
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	if err := testDB.Migrate(ctx, postgresadapter.Models()...); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	code := m.Run()

	_ = testDB.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func batchRecords(batch string, at time.Time) []entities.DistributedRecord {
	return []entities.DistributedRecord{
		{ID: batch + "-1", FirstName: "Ann", Phone: "555-0101", AssignedAgentID: "agent-a", UploadBatch: batch, RowNumber: 1, Status: entities.RecordStatusPending, CreatedAt: at, UpdatedAt: at},
		{ID: batch + "-2", FirstName: "Ben", Phone: "555-0102", AssignedAgentID: "agent-a", UploadBatch: batch, RowNumber: 2, Status: entities.RecordStatusPending, CreatedAt: at, UpdatedAt: at},
		{ID: batch + "-3", FirstName: "Cat", Phone: "555-0103", AssignedAgentID: "agent-b", UploadBatch: batch, RowNumber: 3, Status: entities.RecordStatusPending, CreatedAt: at, UpdatedAt: at},
	}
}

func distributedEvent(eventID string, batch string, at time.Time) ports.EventEnvelope {
	return contractsv1.Envelope{
		EventID:      eventID,
		EventType:    contractsv1.EventTypeBatchDistributed,
		OccurredAt:   at,
		PartitionKey: batch,
		Data:         []byte(`{}`),
	}
}

func TestRepositoryBatchLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := postgresadapter.NewRepository(testDB.DB, nil)
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	batch := "batch_lifecycle"

	require.NoError(t, repo.InsertBatch(ctx, batchRecords(batch, at), distributedEvent("evt-lifecycle", batch, at)))

	records, err := repo.ListRecords(ctx, entities.RecordFilter{UploadBatch: batch, AgentID: "agent-a"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	updated, err := repo.UpdateRecordStatus(ctx, batch+"-3", entities.RecordStatusCompleted, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, entities.RecordStatusCompleted, updated.Status)

	aggregates, err := repo.AggregateBatches(ctx)
	require.NoError(t, err)
	var found *entities.BatchAggregate
	for i := range aggregates {
		if aggregates[i].UploadBatch == batch {
			found = &aggregates[i]
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Agents, 2)
	assert.Equal(t, "agent-a", found.Agents[0].AgentID)
	assert.Equal(t, 2, found.Agents[0].Count)

	deleted, err := repo.DeleteBatch(ctx, batch, func(n int64) (ports.EventEnvelope, error) {
		return contractsv1.Envelope{
			EventID:      "evt-lifecycle-deleted",
			EventType:    contractsv1.EventTypeBatchDeleted,
			OccurredAt:   at,
			PartitionKey: batch,
			Data:         []byte(fmt.Sprintf(`{"deleted_count":%d}`, n)),
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	deleted, err = repo.DeleteBatch(ctx, batch, func(int64) (ports.EventEnvelope, error) {
		t.Fatal("no event expected for an empty delete")
		return ports.EventEnvelope{}, nil
	})
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = repo.GetRecord(ctx, batch+"-1")
	require.ErrorIs(t, err, domainerrors.ErrRecordNotFound)
}

func TestRepositoryOutboxRelayRows(t *testing.T) {
	ctx := context.Background()
	repo := postgresadapter.NewRepository(testDB.DB, nil)
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	batch := "batch_outbox"

	require.NoError(t, repo.InsertBatch(ctx, batchRecords(batch, at), distributedEvent("evt-outbox", batch, at)))

	pending, err := repo.ListPendingOutbox(ctx, 100)
	require.NoError(t, err)
	var message *ports.OutboxMessage
	for i := range pending {
		if pending[i].OutboxID == "evt-outbox" {
			message = &pending[i]
		}
	}
	require.NotNil(t, message)
	assert.Equal(t, contractsv1.EventTypeBatchDistributed, message.EventType)
	assert.Equal(t, batch, message.PartitionKey)

	require.NoError(t, repo.MarkOutboxPublished(ctx, "evt-outbox", at.Add(time.Minute)))
	pending, err = repo.ListPendingOutbox(ctx, 100)
	require.NoError(t, err)
	for _, row := range pending {
		assert.NotEqual(t, "evt-outbox", row.OutboxID)
	}
}
