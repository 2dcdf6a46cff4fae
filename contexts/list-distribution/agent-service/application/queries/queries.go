package queries

import (
	"context"
	"log/slog"
	"strings"

	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	"agentlists/contexts/list-distribution/agent-service/ports"
)

type UseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (uc UseCase) ListAgents(ctx context.Context) ([]entities.Agent, error) {
	return uc.Repository.ListAgents(ctx)
}

func (uc UseCase) GetAgent(ctx context.Context, agentID string) (entities.Agent, error) {
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return entities.Agent{}, domainerrors.ErrAgentNotFound
	}
	return uc.Repository.GetAgent(ctx, agentID)
}

// ListActive returns the distribution order: oldest agent first, ties by id.
func (uc UseCase) ListActive(ctx context.Context) ([]entities.Agent, error) {
	return uc.Repository.ListActiveAgents(ctx)
}

func (uc UseCase) CountActive(ctx context.Context) (int64, error) {
	return uc.Repository.CountActiveAgents(ctx)
}
