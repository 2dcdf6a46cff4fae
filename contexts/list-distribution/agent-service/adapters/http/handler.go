package httpadapter

import (
	"context"
	"log/slog"

	application "agentlists/contexts/list-distribution/agent-service/application"
	"agentlists/contexts/list-distribution/agent-service/application/commands"
	"agentlists/contexts/list-distribution/agent-service/application/queries"
	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	httptransport "agentlists/contexts/list-distribution/agent-service/transport/http"
)

type Handler struct {
	Commands commands.UseCase
	Queries  queries.UseCase
	Logger   *slog.Logger
}

func (h Handler) CreateAgentHandler(ctx context.Context, req httptransport.CreateAgentRequest) (httptransport.AgentResponse, error) {
	agent, err := h.Commands.CreateAgent(ctx, commands.CreateAgentCommand{
		Name:         req.Name,
		Email:        req.Email,
		CountryCode:  req.CountryCode,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("agent http create failed",
			"event", "agent_http_create_failed",
			"module", "list-distribution/agent-service",
			"layer", "adapter",
			"error", err.Error(),
		)
		return httptransport.AgentResponse{}, err
	}
	return httptransport.AgentResponse{Data: toAgentDTO(agent)}, nil
}

func (h Handler) ListAgentsHandler(ctx context.Context) (httptransport.ListAgentsResponse, error) {
	agents, err := h.Queries.ListAgents(ctx)
	if err != nil {
		return httptransport.ListAgentsResponse{}, err
	}
	items := make([]httptransport.AgentDTO, 0, len(agents))
	for _, agent := range agents {
		items = append(items, toAgentDTO(agent))
	}
	return httptransport.ListAgentsResponse{Count: len(items), Data: items}, nil
}

func (h Handler) GetAgentHandler(ctx context.Context, agentID string) (httptransport.AgentResponse, error) {
	agent, err := h.Queries.GetAgent(ctx, agentID)
	if err != nil {
		return httptransport.AgentResponse{}, err
	}
	return httptransport.AgentResponse{Data: toAgentDTO(agent)}, nil
}

func (h Handler) UpdateAgentHandler(
	ctx context.Context,
	agentID string,
	req httptransport.UpdateAgentRequest,
) (httptransport.AgentResponse, error) {
	agent, err := h.Commands.UpdateAgent(ctx, commands.UpdateAgentCommand{
		AgentID:      agentID,
		Name:         req.Name,
		Email:        req.Email,
		CountryCode:  req.CountryCode,
		MobileNumber: req.MobileNumber,
		IsActive:     req.IsActive,
	})
	if err != nil {
		return httptransport.AgentResponse{}, err
	}
	return httptransport.AgentResponse{Data: toAgentDTO(agent)}, nil
}

func (h Handler) DeleteAgentHandler(ctx context.Context, agentID string) (httptransport.DeleteAgentResponse, error) {
	if err := h.Commands.DeleteAgent(ctx, agentID); err != nil {
		return httptransport.DeleteAgentResponse{}, err
	}
	application.ResolveLogger(h.Logger).Info("agent deleted",
		"event", "agent_http_deleted",
		"module", "list-distribution/agent-service",
		"layer", "adapter",
		"agent_id", agentID,
	)
	return httptransport.DeleteAgentResponse{ID: agentID, Deleted: true}, nil
}

func (h Handler) CountActiveHandler(ctx context.Context) (httptransport.ActiveCountResponse, error) {
	count, err := h.Queries.CountActive(ctx)
	if err != nil {
		return httptransport.ActiveCountResponse{}, err
	}
	return httptransport.ActiveCountResponse{Count: count}, nil
}

func toAgentDTO(agent entities.Agent) httptransport.AgentDTO {
	return httptransport.AgentDTO{
		ID:    agent.ID,
		Name:  agent.Name,
		Email: agent.Email,
		Mobile: httptransport.MobileDTO{
			CountryCode: agent.Mobile.CountryCode,
			Number:      agent.Mobile.Number,
		},
		IsActive:  agent.Active,
		CreatedAt: agent.CreatedAt,
		UpdatedAt: agent.UpdatedAt,
	}
}
