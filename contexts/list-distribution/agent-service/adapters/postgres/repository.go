package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	"agentlists/contexts/list-distribution/agent-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

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

func Models() []any {
	return []any{&agentModel{}}
}

func (r *Repository) CreateAgent(ctx context.Context, agent entities.Agent) error {
	row := agentModelFromEntity(agent)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateEmail
		}
		return r.logError("agent_repo_create_failed", err, "agent_id", agent.ID)
	}
	return nil
}

func (r *Repository) GetAgent(ctx context.Context, agentID string) (entities.Agent, error) {
	var row agentModel
	err := r.db.WithContext(ctx).Where("id = ?", agentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Agent{}, domainerrors.ErrAgentNotFound
		}
		return entities.Agent{}, r.logError("agent_repo_get_failed", err, "agent_id", agentID)
	}
	return row.toEntity(), nil
}

func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&agentModel{}).Where("email = ?", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, r.logError("agent_repo_email_taken_failed", err)
	}
	return count > 0, nil
}

func (r *Repository) ListAgents(ctx context.Context) ([]entities.Agent, error) {
	return r.list(ctx, "agent_repo_list_failed", false, "created_at DESC, id DESC")
}

func (r *Repository) ListActiveAgents(ctx context.Context) ([]entities.Agent, error) {
	return r.list(ctx, "agent_repo_list_active_failed", true, "created_at ASC, id ASC")
}

func (r *Repository) UpdateAgent(ctx context.Context, agent entities.Agent) error {
	result := r.db.WithContext(ctx).
		Model(&agentModel{}).
		Where("id = ?", agent.ID).
		Updates(map[string]any{
			"name":                agent.Name,
			"email":               agent.Email,
			"mobile_country_code": agent.Mobile.CountryCode,
			"mobile_number":       agent.Mobile.Number,
			"is_active":           agent.Active,
			"updated_at":          agent.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrDuplicateEmail
		}
		return r.logError("agent_repo_update_failed", result.Error, "agent_id", agent.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAgentNotFound
	}
	return nil
}

func (r *Repository) DeleteAgent(ctx context.Context, agentID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", agentID).Delete(&agentModel{})
	if result.Error != nil {
		return r.logError("agent_repo_delete_failed", result.Error, "agent_id", agentID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAgentNotFound
	}
	return nil
}

func (r *Repository) CountActiveAgents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&agentModel{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, r.logError("agent_repo_count_active_failed", err)
	}
	return count, nil
}

func (r *Repository) list(ctx context.Context, event string, activeOnly bool, order string) ([]entities.Agent, error) {
	query := r.db.WithContext(ctx).Model(&agentModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []agentModel
	if err := query.Order(order).Find(&rows).Error; err != nil {
		return nil, r.logError(event, err)
	}
	items := make([]entities.Agent, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "list-distribution/agent-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("agent repository operation failed", fields...)
	return err
}

type agentModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	Name              string    `gorm:"column:name"`
	Email             string    `gorm:"column:email;uniqueIndex"`
	MobileCountryCode string    `gorm:"column:mobile_country_code"`
	MobileNumber      string    `gorm:"column:mobile_number"`
	PasswordHash      string    `gorm:"column:password_hash"`
	IsActive          bool      `gorm:"column:is_active;index"`
	CreatedAt         time.Time `gorm:"column:created_at;index"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (agentModel) TableName() string {
	return "agents"
}

func agentModelFromEntity(agent entities.Agent) agentModel {
	return agentModel{
		ID:                agent.ID,
		Name:              agent.Name,
		Email:             agent.Email,
		MobileCountryCode: agent.Mobile.CountryCode,
		MobileNumber:      agent.Mobile.Number,
		PasswordHash:      agent.PasswordHash,
		IsActive:          agent.Active,
		CreatedAt:         agent.CreatedAt.UTC(),
		UpdatedAt:         agent.UpdatedAt.UTC(),
	}
}

func (m agentModel) toEntity() entities.Agent {
	return entities.Agent{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
		Mobile: entities.Mobile{
			CountryCode: m.MobileCountryCode,
			Number:      m.MobileNumber,
		},
		PasswordHash: m.PasswordHash,
		Active:       m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Repository = (*Repository)(nil)
