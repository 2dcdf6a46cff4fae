package queries

import (
	"context"
	"log/slog"
	"strings"

	application "agentlists/contexts/list-distribution/list-service/application"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/domain/services"
	"agentlists/contexts/list-distribution/list-service/ports"
)

type UseCase struct {
	Records ports.RecordRepository
	Agents  ports.AgentDirectory
	Cache   ports.SummaryCache
	Metrics ports.UploadMetrics
	Logger  *slog.Logger
}

// RecordView is a record joined with its agent. Agent is nil when the agent
// has been deleted since the upload.
type RecordView struct {
	Record entities.DistributedRecord
	Agent  *entities.AgentRef
}

type AgentRecords struct {
	Agent   entities.AgentRef
	Records []entities.DistributedRecord
}

// ListRecords returns records matching the filter, newest first.
func (uc UseCase) ListRecords(ctx context.Context, filter entities.RecordFilter) ([]RecordView, error) {
	filter.AgentID = strings.TrimSpace(filter.AgentID)
	filter.UploadBatch = strings.TrimSpace(filter.UploadBatch)
	filter.Status = entities.RecordStatus(strings.TrimSpace(string(filter.Status)))
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domainerrors.ErrInvalidStatus
	}

	records, err := uc.Records.ListRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	agents, err := uc.Agents.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entities.AgentRef, len(agents))
	for _, agent := range agents {
		byID[agent.ID] = agent
	}

	views := make([]RecordView, 0, len(records))
	for _, record := range records {
		view := RecordView{Record: record}
		if agent, ok := byID[record.AssignedAgentID]; ok {
			view.Agent = &agent
		}
		views = append(views, view)
	}
	return views, nil
}

func (uc UseCase) ListByAgent(ctx context.Context, agentID string) (AgentRecords, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return AgentRecords{}, domainerrors.ErrAgentNotFound
	}
	agent, err := uc.Agents.GetAgent(ctx, agentID)
	if err != nil {
		return AgentRecords{}, err
	}
	records, err := uc.Records.ListRecords(ctx, entities.RecordFilter{AgentID: agent.ID})
	if err != nil {
		return AgentRecords{}, err
	}
	return AgentRecords{Agent: agent, Records: records}, nil
}

// Summaries reports every upload batch that still has records assigned to
// an existing agent, newest first.
func (uc UseCase) Summaries(ctx context.Context) ([]entities.BatchSummary, error) {
	logger := application.ResolveLogger(uc.Logger)
	aggregates, err := uc.loadAggregates(ctx, logger)
	if err != nil {
		return nil, err
	}
	agents, err := uc.Agents.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	return services.SummarizeAggregates(aggregates, agents), nil
}

func (uc UseCase) loadAggregates(ctx context.Context, logger *slog.Logger) ([]entities.BatchAggregate, error) {
	var generation int64
	if uc.Cache != nil {
		cached, observed, ok, err := uc.Cache.GetAggregates(ctx)
		generation = observed
		if err != nil {
			logger.Warn("list summary cache read failed",
				"event", "list_summary_cache_read_failed",
				"module", "list-distribution/list-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
		if uc.Metrics != nil {
			uc.Metrics.ObserveSummaryCache(ok && err == nil)
		}
		if ok && err == nil {
			return cached, nil
		}
	}

	aggregates, err := uc.Records.AggregateBatches(ctx)
	if err != nil {
		return nil, err
	}
	if uc.Cache != nil {
		if err := uc.Cache.SetAggregates(ctx, generation, aggregates); err != nil {
			logger.Warn("list summary cache write failed",
				"event", "list_summary_cache_write_failed",
				"module", "list-distribution/list-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
	}
	return aggregates, nil
}
