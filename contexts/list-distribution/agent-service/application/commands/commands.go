package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "agentlists/contexts/list-distribution/agent-service/application"
	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	"agentlists/contexts/list-distribution/agent-service/ports"
)

type UseCase struct {
	Repository ports.Repository
	Hasher     ports.PasswordHasher
	Schema     ports.SchemaValidator
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

// CreateAgentCommand mirrors the JSON payload so the schema sees exactly what
// the client sent.
type CreateAgentCommand struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	CountryCode  string `json:"countryCode"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

// UpdateAgentCommand is a partial update; nil fields are left unchanged.
type UpdateAgentCommand struct {
	AgentID      string  `json:"-"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	CountryCode  *string `json:"countryCode,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
}

func (uc UseCase) CreateAgent(ctx context.Context, cmd CreateAgentCommand) (entities.Agent, error) {
	logger := application.ResolveLogger(uc.Logger)
	if err := uc.Schema.ValidateCreate(cmd); err != nil {
		return entities.Agent{}, err
	}

	email := normalizeEmail(cmd.Email)
	taken, err := uc.Repository.EmailTaken(ctx, email, "")
	if err != nil {
		return entities.Agent{}, err
	}
	if taken {
		return entities.Agent{}, domainerrors.ErrDuplicateEmail
	}

	hash, err := uc.Hasher.Hash(cmd.Password)
	if err != nil {
		return entities.Agent{}, err
	}
	agentID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Agent{}, err
	}

	now := uc.now()
	agent := entities.Agent{
		ID:    agentID,
		Name:  strings.TrimSpace(cmd.Name),
		Email: email,
		Mobile: entities.Mobile{
			CountryCode: strings.TrimSpace(cmd.CountryCode),
			Number:      strings.TrimSpace(cmd.MobileNumber),
		},
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Repository.CreateAgent(ctx, agent); err != nil {
		return entities.Agent{}, err
	}

	logger.Info("agent created",
		"event", "agent_created",
		"module", "list-distribution/agent-service",
		"layer", "application",
		"agent_id", agent.ID,
	)
	return agent, nil
}

func (uc UseCase) UpdateAgent(ctx context.Context, cmd UpdateAgentCommand) (entities.Agent, error) {
	logger := application.ResolveLogger(uc.Logger)
	agentID := strings.TrimSpace(cmd.AgentID)
	if agentID == "" {
		return entities.Agent{}, domainerrors.ErrAgentNotFound
	}
	if err := uc.Schema.ValidateUpdate(cmd); err != nil {
		return entities.Agent{}, err
	}

	agent, err := uc.Repository.GetAgent(ctx, agentID)
	if err != nil {
		return entities.Agent{}, err
	}

	if cmd.Email != nil {
		email := normalizeEmail(*cmd.Email)
		if email != agent.Email {
			taken, err := uc.Repository.EmailTaken(ctx, email, agent.ID)
			if err != nil {
				return entities.Agent{}, err
			}
			if taken {
				return entities.Agent{}, domainerrors.ErrDuplicateEmail
			}
			agent.Email = email
		}
	}
	if cmd.Name != nil {
		agent.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.CountryCode != nil {
		agent.Mobile.CountryCode = strings.TrimSpace(*cmd.CountryCode)
	}
	if cmd.MobileNumber != nil {
		agent.Mobile.Number = strings.TrimSpace(*cmd.MobileNumber)
	}
	if cmd.IsActive != nil {
		agent.Active = *cmd.IsActive
	}
	agent.UpdatedAt = uc.now()

	if err := uc.Repository.UpdateAgent(ctx, agent); err != nil {
		return entities.Agent{}, err
	}
	logger.Info("agent updated",
		"event", "agent_updated",
		"module", "list-distribution/agent-service",
		"layer", "application",
		"agent_id", agent.ID,
		"active", agent.Active,
	)
	return agent, nil
}

// DeleteAgent removes the agent. Records already assigned to it are kept.
func (uc UseCase) DeleteAgent(ctx context.Context, agentID string) error {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return domainerrors.ErrAgentNotFound
	}
	if err := uc.Repository.DeleteAgent(ctx, agentID); err != nil {
		if !errors.Is(err, domainerrors.ErrAgentNotFound) {
			application.ResolveLogger(uc.Logger).Error("agent delete failed",
				"event", "agent_delete_failed",
				"module", "list-distribution/agent-service",
				"layer", "application",
				"agent_id", agentID,
				"error", err.Error(),
			)
		}
		return err
	}
	return nil
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
