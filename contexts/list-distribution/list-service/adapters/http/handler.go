package httpadapter

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	application "agentlists/contexts/list-distribution/list-service/application"
	"agentlists/contexts/list-distribution/list-service/application/commands"
	"agentlists/contexts/list-distribution/list-service/application/queries"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	httptransport "agentlists/contexts/list-distribution/list-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

type UploadRequest struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (h Handler) UploadHandler(ctx context.Context, req UploadRequest) (httptransport.UploadResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.Commands.Upload(ctx, commands.UploadCommand{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.Size,
		Body:        req.Body,
	})
	if err != nil {
		logger.Warn("list http upload failed",
			"event", "list_http_upload_failed",
			"module", "list-distribution/list-service",
			"layer", "adapter",
			"file_name", strings.TrimSpace(req.FileName),
			"error", err.Error(),
		)
		return httptransport.UploadResponse{}, err
	}

	summary := make([]httptransport.AgentDistributionDTO, 0, len(result.DistributionSummary))
	for _, item := range result.DistributionSummary {
		summary = append(summary, httptransport.AgentDistributionDTO{
			AgentID:       item.AgentID,
			AgentName:     item.AgentName,
			AgentEmail:    item.AgentEmail,
			ItemsAssigned: item.ItemsAssigned,
		})
	}
	logger.Info("list http upload completed",
		"event", "list_http_upload_completed",
		"module", "list-distribution/list-service",
		"layer", "adapter",
		"upload_batch", result.UploadBatch,
		"total_items", result.TotalItems,
	)
	return httptransport.UploadResponse{
		UploadBatch:         result.UploadBatch,
		TotalItems:          result.TotalItems,
		DistributionSummary: summary,
	}, nil
}

func (h Handler) ListRecordsHandler(ctx context.Context, req httptransport.ListRecordsRequest) (httptransport.ListRecordsResponse, error) {
	views, err := h.Queries.ListRecords(ctx, entities.RecordFilter{
		AgentID:     req.AgentID,
		UploadBatch: req.UploadBatch,
		Status:      entities.RecordStatus(req.Status),
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("list http list records failed",
			"event", "list_http_list_records_failed",
			"module", "list-distribution/list-service",
			"layer", "adapter",
			"agent_id", strings.TrimSpace(req.AgentID),
			"upload_batch", strings.TrimSpace(req.UploadBatch),
			"status", strings.TrimSpace(req.Status),
			"error", err.Error(),
		)
		return httptransport.ListRecordsResponse{}, err
	}
	data := make([]httptransport.ListRecordDTO, 0, len(views))
	for _, view := range views {
		data = append(data, toRecordDTO(view.Record, view.Agent))
	}
	return httptransport.ListRecordsResponse{Count: len(data), Data: data}, nil
}

func (h Handler) ListByAgentHandler(ctx context.Context, agentID string) (httptransport.AgentListsResponse, error) {
	result, err := h.Queries.ListByAgent(ctx, agentID)
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("list http list by agent failed",
			"event", "list_http_list_by_agent_failed",
			"module", "list-distribution/list-service",
			"layer", "adapter",
			"agent_id", strings.TrimSpace(agentID),
			"error", err.Error(),
		)
		return httptransport.AgentListsResponse{}, err
	}
	data := make([]httptransport.ListRecordDTO, 0, len(result.Records))
	for _, record := range result.Records {
		data = append(data, toRecordDTO(record, &result.Agent))
	}
	return httptransport.AgentListsResponse{
		Agent: httptransport.AgentSummaryDTO{
			ID:    result.Agent.ID,
			Name:  result.Agent.Name,
			Email: result.Agent.Email,
		},
		Count: len(data),
		Data:  data,
	}, nil
}

func (h Handler) SummaryHandler(ctx context.Context) (httptransport.SummaryResponse, error) {
	summaries, err := h.Queries.Summaries(ctx)
	if err != nil {
		application.ResolveLogger(h.Logger).Error("list http summary failed",
			"event", "list_http_summary_failed",
			"module", "list-distribution/list-service",
			"layer", "adapter",
			"error", err.Error(),
		)
		return httptransport.SummaryResponse{}, err
	}
	data := make([]httptransport.BatchSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		distribution := make([]httptransport.BatchAgentCountDTO, 0, len(summary.Distribution))
		for _, item := range summary.Distribution {
			distribution = append(distribution, httptransport.BatchAgentCountDTO{
				AgentID:    item.AgentID,
				AgentName:  item.AgentName,
				AgentEmail: item.AgentEmail,
				ItemsCount: item.ItemsCount,
			})
		}
		data = append(data, httptransport.BatchSummaryDTO{
			UploadBatch:  summary.UploadBatch,
			TotalItems:   summary.TotalItems,
			UploadDate:   summary.UploadDate.UTC().Format(time.RFC3339Nano),
			Distribution: distribution,
		})
	}
	return httptransport.SummaryResponse{Count: len(data), Data: data}, nil
}

func (h Handler) DeleteBatchHandler(ctx context.Context, uploadBatch string) (httptransport.DeleteBatchResponse, error) {
	deleted, err := h.Commands.DeleteBatch(ctx, uploadBatch)
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("list http delete batch failed",
			"event", "list_http_delete_batch_failed",
			"module", "list-distribution/list-service",
			"layer", "adapter",
			"upload_batch", strings.TrimSpace(uploadBatch),
			"error", err.Error(),
		)
		return httptransport.DeleteBatchResponse{}, err
	}
	return httptransport.DeleteBatchResponse{
		UploadBatch:  strings.TrimSpace(uploadBatch),
		DeletedCount: deleted,
	}, nil
}

func (h Handler) UpdateStatusHandler(
	ctx context.Context,
	recordID string,
	req httptransport.UpdateStatusRequest,
) (httptransport.ListRecordDTO, error) {
	record, err := h.Commands.UpdateStatus(ctx, recordID, req.Status)
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("list http update status failed",
			"event", "list_http_update_status_failed",
			"module", "list-distribution/list-service",
			"layer", "adapter",
			"record_id", strings.TrimSpace(recordID),
			"status", strings.TrimSpace(req.Status),
			"error", err.Error(),
		)
		return httptransport.ListRecordDTO{}, err
	}
	return toRecordDTO(record, nil), nil
}

func toRecordDTO(record entities.DistributedRecord, agent *entities.AgentRef) httptransport.ListRecordDTO {
	dto := httptransport.ListRecordDTO{
		ID:              record.ID,
		FirstName:       record.FirstName,
		Phone:           record.Phone,
		Notes:           record.Notes,
		AssignedAgentID: record.AssignedAgentID,
		UploadBatch:     record.UploadBatch,
		RowNumber:       record.RowNumber,
		Status:          string(record.Status),
		CreatedAt:       record.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if agent != nil {
		dto.AssignedTo = &httptransport.AssignedAgentDTO{
			ID:    agent.ID,
			Name:  agent.Name,
			Email: agent.Email,
			Mobile: httptransport.MobileDTO{
				CountryCode: agent.Mobile.CountryCode,
				Number:      agent.Mobile.Number,
			},
		}
	}
	return dto
}
