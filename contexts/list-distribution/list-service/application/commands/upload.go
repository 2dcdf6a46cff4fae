package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	contractsv1 "agentlists/contracts/gen/events/v1"
	application "agentlists/contexts/list-distribution/list-service/application"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/domain/services"
	"agentlists/contexts/list-distribution/list-service/ports"
)

const (
	UploadOutcomeSuccess  = "success"
	UploadOutcomeRejected = "rejected"
	UploadOutcomeFailed   = "failed"
)

type UploadCommand struct {
	FileName    string
	ContentType string
	// Size is the declared size in bytes, or a negative value when unknown.
	Size int64
	Body io.Reader
}

type UploadResult struct {
	UploadBatch         string
	TotalItems          int
	DistributionSummary []entities.AgentDistribution
}

// ResolveFormat picks the parser from the file extension.
func ResolveFormat(fileName string) (ports.SpreadsheetFormat, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))) {
	case ".csv":
		return ports.FormatCSV, nil
	case ".xlsx":
		return ports.FormatXLSX, nil
	case ".xls":
		return ports.FormatXLS, nil
	default:
		return "", domainerrors.ErrUnsupportedFileType
	}
}

// Upload parses, validates and distributes one spreadsheet across the active
// agents. Either every record is persisted or none is. The staged copy of the
// file is removed on every path.
func (uc UseCase) Upload(ctx context.Context, cmd UploadCommand) (result UploadResult, err error) {
	logger := application.ResolveLogger(uc.Logger)
	startedAt := uc.now()
	defer func() {
		if uc.Metrics == nil {
			return
		}
		uc.Metrics.ObserveUpload(uploadOutcome(err), result.TotalItems, uc.now().Sub(startedAt))
	}()

	fileName := strings.TrimSpace(cmd.FileName)
	if cmd.Body == nil || fileName == "" {
		return UploadResult{}, domainerrors.ErrNoFileUploaded
	}
	format, err := ResolveFormat(fileName)
	if err != nil {
		logger.Warn("list upload unsupported file type",
			"event", "list_upload_unsupported_file_type",
			"module", "list-distribution/list-service",
			"layer", "application",
			"file_name", fileName,
			"content_type", cmd.ContentType,
		)
		return UploadResult{}, err
	}
	maxBytes := uc.maxUploadBytes()
	if cmd.Size > maxBytes {
		return UploadResult{}, domainerrors.ErrFileTooLarge
	}
	if cmd.Size == 0 {
		return UploadResult{}, domainerrors.ErrEmptyFile
	}

	staged, err := uc.Stager.Stage(ctx, fileName, cmd.Body, maxBytes)
	if err != nil {
		return UploadResult{}, err
	}
	defer func() {
		if removeErr := uc.Stager.Remove(context.WithoutCancel(ctx), staged); removeErr != nil {
			logger.Warn("list upload staged file removal failed",
				"event", "list_upload_staged_file_remove_failed",
				"module", "list-distribution/list-service",
				"layer", "application",
				"path", staged.Path,
				"error", removeErr.Error(),
			)
		}
	}()
	if staged.Size == 0 {
		return UploadResult{}, domainerrors.ErrEmptyFile
	}

	rows, err := uc.Parser.Parse(ctx, staged, format)
	if err != nil {
		logger.Warn("list upload parse failed",
			"event", "list_upload_parse_failed",
			"module", "list-distribution/list-service",
			"layer", "application",
			"file_name", fileName,
			"format", string(format),
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrFileParseFailed) {
			return UploadResult{}, err
		}
		return UploadResult{}, fmt.Errorf("%w: %v", domainerrors.ErrFileParseFailed, err)
	}

	batch, err := services.Validate(services.NormalizeAll(rows))
	if err != nil {
		logger.Warn("list upload validation failed",
			"event", "list_upload_validation_failed",
			"module", "list-distribution/list-service",
			"layer", "application",
			"file_name", fileName,
			"row_count", len(rows),
			"error", err.Error(),
		)
		return UploadResult{}, err
	}

	agents, err := uc.Agents.ListActiveAgents(ctx)
	if err != nil {
		return UploadResult{}, err
	}
	if len(agents) == 0 {
		logger.Warn("list upload has no active agents",
			"event", "list_upload_no_active_agents",
			"module", "list-distribution/list-service",
			"layer", "application",
			"file_name", fileName,
		)
		return UploadResult{}, domainerrors.ErrNoAgentsAvailable
	}

	now := uc.now()
	uploadBatch, err := uc.BatchIDs.NewBatchID(ctx, now)
	if err != nil {
		return UploadResult{}, err
	}

	records, err := services.Distribute(batch, agents)
	if err != nil {
		return UploadResult{}, err
	}
	for i := range records {
		recordID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return UploadResult{}, err
		}
		records[i].ID = recordID
		records[i].UploadBatch = uploadBatch
		records[i].Status = entities.RecordStatusPending
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}
	summary := services.DistributionSummary(records, agents)

	allocations := make([]contractsv1.AgentAllocation, 0, len(summary))
	for _, item := range summary {
		allocations = append(allocations, contractsv1.AgentAllocation{
			AgentID:       item.AgentID,
			ItemsAssigned: item.ItemsAssigned,
		})
	}
	event, err := uc.newEnvelope(ctx, contractsv1.EventTypeBatchDistributed, uploadBatch, contractsv1.BatchDistributedData{
		UploadBatch: uploadBatch,
		TotalItems:  len(records),
		Allocations: allocations,
	}, now)
	if err != nil {
		return UploadResult{}, err
	}

	if err := uc.Records.InsertBatch(ctx, records, event); err != nil {
		logger.Error("list upload persist failed",
			"event", "list_upload_persist_failed",
			"module", "list-distribution/list-service",
			"layer", "application",
			"upload_batch", uploadBatch,
			"record_count", len(records),
			"error", err.Error(),
		)
		return UploadResult{}, err
	}
	uc.invalidateSummaries(ctx, uploadBatch)

	logger.Info("list upload distributed",
		"event", "list_upload_distributed",
		"module", "list-distribution/list-service",
		"layer", "application",
		"upload_batch", uploadBatch,
		"record_count", len(records),
		"agent_count", len(agents),
	)
	return UploadResult{
		UploadBatch:         uploadBatch,
		TotalItems:          len(records),
		DistributionSummary: summary,
	}, nil
}

func uploadOutcome(err error) string {
	switch {
	case err == nil:
		return UploadOutcomeSuccess
	case IsInputError(err):
		return UploadOutcomeRejected
	default:
		return UploadOutcomeFailed
	}
}

// IsInputError reports whether err was caused by the uploaded content or the
// current agent pool rather than by infrastructure.
func IsInputError(err error) bool {
	for _, target := range []error{
		domainerrors.ErrNoFileUploaded,
		domainerrors.ErrEmptyFile,
		domainerrors.ErrFileTooLarge,
		domainerrors.ErrUnsupportedFileType,
		domainerrors.ErrFileParseFailed,
		domainerrors.ErrEmptyBatch,
		domainerrors.ErrMissingRequiredField,
		domainerrors.ErrInvalidPhoneFormat,
		domainerrors.ErrFieldTooLong,
		domainerrors.ErrNoAgentsAvailable,
		domainerrors.ErrNoItemsToDistribute,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
