package commands

import (
	"context"
	"strings"

	contractsv1 "agentlists/contracts/gen/events/v1"
	application "agentlists/contexts/list-distribution/list-service/application"
	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/ports"
)

// DeleteBatch removes every record of an upload batch.
func (uc UseCase) DeleteBatch(ctx context.Context, uploadBatch string) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	uploadBatch = strings.TrimSpace(uploadBatch)
	if uploadBatch == "" {
		return 0, domainerrors.ErrInvalidUploadBatch
	}

	now := uc.now()
	deleted, err := uc.Records.DeleteBatch(ctx, uploadBatch, func(count int64) (ports.EventEnvelope, error) {
		return uc.newEnvelope(ctx, contractsv1.EventTypeBatchDeleted, uploadBatch, contractsv1.BatchDeletedData{
			UploadBatch:  uploadBatch,
			DeletedCount: count,
		}, now)
	})
	if err != nil {
		logger.Error("list batch delete failed",
			"event", "list_batch_delete_failed",
			"module", "list-distribution/list-service",
			"layer", "application",
			"upload_batch", uploadBatch,
			"error", err.Error(),
		)
		return 0, err
	}
	if deleted == 0 {
		return 0, domainerrors.ErrBatchNotFound
	}
	uc.invalidateSummaries(ctx, uploadBatch)

	logger.Info("list batch deleted",
		"event", "list_batch_deleted",
		"module", "list-distribution/list-service",
		"layer", "application",
		"upload_batch", uploadBatch,
		"deleted_count", deleted,
	)
	return deleted, nil
}

// UpdateStatus moves one record to another status. Any transition between
// the three statuses is allowed.
func (uc UseCase) UpdateStatus(ctx context.Context, recordID string, status string) (entities.DistributedRecord, error) {
	recordID = strings.TrimSpace(recordID)
	next := entities.RecordStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return entities.DistributedRecord{}, domainerrors.ErrInvalidStatus
	}
	if recordID == "" {
		return entities.DistributedRecord{}, domainerrors.ErrRecordNotFound
	}

	record, err := uc.Records.UpdateRecordStatus(ctx, recordID, next, uc.now())
	if err != nil {
		return entities.DistributedRecord{}, err
	}
	application.ResolveLogger(uc.Logger).Info("list record status updated",
		"event", "list_record_status_updated",
		"module", "list-distribution/list-service",
		"layer", "application",
		"record_id", recordID,
		"status", string(next),
	)
	return record, nil
}
