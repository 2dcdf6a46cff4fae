package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agentlists/contexts/list-distribution/list-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/ports"
	"agentlists/internal/shared/outbox"

	"gorm.io/gorm"
)

const insertChunkSize = 500

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables owned by the module, for migrations.
func Models() []any {
	return []any{&listRecordModel{}, &listOutboxModel{}}
}

func (r *Repository) InsertBatch(ctx context.Context, records []entities.DistributedRecord, event ports.EventEnvelope) error {
	if len(records) == 0 {
		return domainerrors.ErrNoItemsToDistribute
	}
	rows := make([]listRecordModel, 0, len(records))
	for _, record := range records {
		rows = append(rows, listRecordModelFromEntity(record))
	}
	outboxRow, err := outbox.FromEnvelope(event)
	if err != nil {
		return r.logError("list_repo_insert_batch_encode_event_failed", err,
			"upload_batch", records[0].UploadBatch,
		)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&rows, insertChunkSize).Error; err != nil {
			return err
		}
		return tx.Create(&listOutboxModel{Record: outboxRow}).Error
	})
	if err != nil {
		return r.logError("list_repo_insert_batch_failed", err,
			"upload_batch", records[0].UploadBatch,
			"record_count", len(records),
		)
	}
	return nil
}

func (r *Repository) ListRecords(ctx context.Context, filter entities.RecordFilter) ([]entities.DistributedRecord, error) {
	query := r.db.WithContext(ctx).Model(&listRecordModel{})
	if value := strings.TrimSpace(filter.AgentID); value != "" {
		query = query.Where("assigned_agent_id = ?", value)
	}
	if value := strings.TrimSpace(filter.UploadBatch); value != "" {
		query = query.Where("upload_batch = ?", value)
	}
	if value := strings.TrimSpace(string(filter.Status)); value != "" {
		query = query.Where("status = ?", value)
	}

	var rows []listRecordModel
	if err := query.
		Order("created_at DESC").
		Order("upload_batch ASC").
		Order("source_row ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("list_repo_list_records_failed", err,
			"agent_id", filter.AgentID,
			"upload_batch", filter.UploadBatch,
			"status", string(filter.Status),
		)
	}
	items := make([]entities.DistributedRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetRecord(ctx context.Context, recordID string) (entities.DistributedRecord, error) {
	var row listRecordModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(recordID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DistributedRecord{}, domainerrors.ErrRecordNotFound
		}
		return entities.DistributedRecord{}, r.logError("list_repo_get_record_failed", err,
			"record_id", strings.TrimSpace(recordID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateRecordStatus(
	ctx context.Context,
	recordID string,
	status entities.RecordStatus,
	updatedAt time.Time,
) (entities.DistributedRecord, error) {
	result := r.db.WithContext(ctx).
		Model(&listRecordModel{}).
		Where("id = ?", strings.TrimSpace(recordID)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return entities.DistributedRecord{}, r.logError("list_repo_update_status_failed", result.Error,
			"record_id", strings.TrimSpace(recordID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("list_repo_update_status_not_found",
			"record_id", strings.TrimSpace(recordID),
		)
		return entities.DistributedRecord{}, domainerrors.ErrRecordNotFound
	}
	return r.GetRecord(ctx, recordID)
}

func (r *Repository) DeleteBatch(ctx context.Context, uploadBatch string, buildEvent ports.DeletedEventBuilder) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("upload_batch = ?", uploadBatch).Delete(&listRecordModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		if deleted == 0 {
			return nil
		}
		event, err := buildEvent(deleted)
		if err != nil {
			return err
		}
		outboxRow, err := outbox.FromEnvelope(event)
		if err != nil {
			return err
		}
		return tx.Create(&listOutboxModel{Record: outboxRow}).Error
	})
	if err != nil {
		return 0, r.logError("list_repo_delete_batch_failed", err,
			"upload_batch", uploadBatch,
		)
	}
	return deleted, nil
}

func (r *Repository) AggregateBatches(ctx context.Context) ([]entities.BatchAggregate, error) {
	var rows []batchAggregateRow
	if err := r.db.WithContext(ctx).
		Model(&listRecordModel{}).
		Select("upload_batch, assigned_agent_id, COUNT(*) AS items_count, MIN(created_at) AS first_created_at, MIN(source_row) AS first_source_row").
		Group("upload_batch, assigned_agent_id").
		Order("upload_batch ASC").
		Order("first_created_at ASC").
		Order("first_source_row ASC").
		Order("assigned_agent_id ASC").
		Scan(&rows).Error; err != nil {
		return nil, r.logError("list_repo_aggregate_batches_failed", err)
	}

	aggregates := make([]entities.BatchAggregate, 0)
	for _, row := range rows {
		if len(aggregates) == 0 || aggregates[len(aggregates)-1].UploadBatch != row.UploadBatch {
			aggregates = append(aggregates, entities.BatchAggregate{UploadBatch: row.UploadBatch})
		}
		last := &aggregates[len(aggregates)-1]
		last.Agents = append(last.Agents, entities.AgentBatchCount{
			AgentID:        row.AssignedAgentID,
			Count:          int(row.ItemsCount),
			FirstCreatedAt: row.FirstCreatedAt.UTC(),
			FirstRowNumber: row.FirstSourceRow,
		})
	}
	return aggregates, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []listOutboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("list_repo_list_pending_outbox_failed", err,
			"limit", limit,
		)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&listOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("list_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		r.logWarn("list_repo_mark_outbox_published_not_found",
			"outbox_id", strings.TrimSpace(outboxID),
		)
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "list-distribution/list-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("list repository operation failed", fields...)
	return err
}

func (r *Repository) logWarn(event string, attrs ...any) {
	fields := make([]any, 0, len(attrs)+6)
	fields = append(fields,
		"event", event,
		"module", "list-distribution/list-service",
		"layer", "adapter",
	)
	fields = append(fields, attrs...)
	r.logger.Warn("list repository warning", fields...)
}

type listRecordModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	FirstName       string    `gorm:"column:first_name"`
	Phone           string    `gorm:"column:phone"`
	Notes           string    `gorm:"column:notes"`
	AssignedAgentID string    `gorm:"column:assigned_agent_id;index"`
	UploadBatch     string    `gorm:"column:upload_batch;index"`
	SourceRow       int       `gorm:"column:source_row"`
	Status          string    `gorm:"column:status;index"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (listRecordModel) TableName() string {
	return "list_records"
}

func listRecordModelFromEntity(record entities.DistributedRecord) listRecordModel {
	return listRecordModel{
		ID:              strings.TrimSpace(record.ID),
		FirstName:       record.FirstName,
		Phone:           record.Phone,
		Notes:           record.Notes,
		AssignedAgentID: strings.TrimSpace(record.AssignedAgentID),
		UploadBatch:     strings.TrimSpace(record.UploadBatch),
		SourceRow:       record.RowNumber,
		Status:          string(record.Status),
		CreatedAt:       record.CreatedAt.UTC(),
		UpdatedAt:       record.UpdatedAt.UTC(),
	}
}

func (m listRecordModel) toEntity() entities.DistributedRecord {
	return entities.DistributedRecord{
		ID:              m.ID,
		FirstName:       m.FirstName,
		Phone:           m.Phone,
		Notes:           m.Notes,
		AssignedAgentID: m.AssignedAgentID,
		UploadBatch:     m.UploadBatch,
		RowNumber:       m.SourceRow,
		Status:          entities.RecordStatus(m.Status),
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

type listOutboxModel struct {
	outbox.Record `gorm:"embedded"`
}

func (listOutboxModel) TableName() string {
	return "list_outbox"
}

type batchAggregateRow struct {
	UploadBatch     string    `gorm:"column:upload_batch"`
	AssignedAgentID string    `gorm:"column:assigned_agent_id"`
	ItemsCount      int64     `gorm:"column:items_count"`
	FirstCreatedAt  time.Time `gorm:"column:first_created_at"`
	FirstSourceRow  int       `gorm:"column:first_source_row"`
}

var _ ports.RecordRepository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
