// Package agentdirectory exposes agent-service agents to list-service through
// its AgentDirectory port.
package agentdirectory

import (
	"context"
	"errors"

	agentqueries "agentlists/contexts/list-distribution/agent-service/application/queries"
	agententities "agentlists/contexts/list-distribution/agent-service/domain/entities"
	agenterrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	listentities "agentlists/contexts/list-distribution/list-service/domain/entities"
	listerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	listports "agentlists/contexts/list-distribution/list-service/ports"
)

type Directory struct {
	Agents agentqueries.UseCase
}

func New(agents agentqueries.UseCase) Directory {
	return Directory{Agents: agents}
}

func (d Directory) ListActiveAgents(ctx context.Context) ([]listentities.AgentRef, error) {
	agents, err := d.Agents.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toRefs(agents), nil
}

func (d Directory) ListAgents(ctx context.Context) ([]listentities.AgentRef, error) {
	agents, err := d.Agents.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	return toRefs(agents), nil
}

func (d Directory) GetAgent(ctx context.Context, agentID string) (listentities.AgentRef, error) {
	agent, err := d.Agents.GetAgent(ctx, agentID)
	if err != nil {
		if errors.Is(err, agenterrors.ErrAgentNotFound) {
			return listentities.AgentRef{}, listerrors.ErrAgentNotFound
		}
		return listentities.AgentRef{}, err
	}
	return toRef(agent), nil
}

func toRefs(agents []agententities.Agent) []listentities.AgentRef {
	refs := make([]listentities.AgentRef, 0, len(agents))
	for _, agent := range agents {
		refs = append(refs, toRef(agent))
	}
	return refs
}

func toRef(agent agententities.Agent) listentities.AgentRef {
	return listentities.AgentRef{
		ID:    agent.ID,
		Name:  agent.Name,
		Email: agent.Email,
		Mobile: listentities.Mobile{
			CountryCode: agent.Mobile.CountryCode,
			Number:      agent.Mobile.Number,
		},
		Active: agent.Active,
	}
}

var _ listports.AgentDirectory = Directory{}
