package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	contractsv1 "agentlists/contracts/gen/events/v1"
	application "agentlists/contexts/list-distribution/list-service/application"
	"agentlists/contexts/list-distribution/list-service/ports"
)

const (
	DefaultMaxUploadBytes int64 = 10 << 20
	sourceService               = "list-service"
)

type UseCase struct {
	Records        ports.RecordRepository
	Agents         ports.AgentDirectory
	Stager         ports.FileStager
	Parser         ports.SpreadsheetParser
	Cache          ports.SummaryCache
	Metrics        ports.UploadMetrics
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	BatchIDs       ports.BatchIDGenerator
	MaxUploadBytes int64
	Logger         *slog.Logger
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc UseCase) maxUploadBytes() int64 {
	if uc.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return uc.MaxUploadBytes
}

func (uc UseCase) newEnvelope(
	ctx context.Context,
	eventType string,
	partitionKey string,
	data any,
	occurredAt time.Time,
) (ports.EventEnvelope, error) {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return contractsv1.Envelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt,
		SourceService:    sourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "upload_batch",
		PartitionKey:     partitionKey,
		Data:             raw,
	}, nil
}

func (uc UseCase) invalidateSummaries(ctx context.Context, uploadBatch string) {
	if uc.Cache == nil {
		return
	}
	if err := uc.Cache.Invalidate(ctx); err != nil {
		application.ResolveLogger(uc.Logger).Warn("list summary cache invalidation failed",
			"event", "list_summary_cache_invalidate_failed",
			"module", "list-distribution/list-service",
			"layer", "application",
			"upload_batch", uploadBatch,
			"error", err.Error(),
		)
	}
}
