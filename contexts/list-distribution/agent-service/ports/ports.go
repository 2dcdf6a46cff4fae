package ports

import (
	"context"
	"time"

	"agentlists/contexts/list-distribution/agent-service/domain/entities"
)

type Repository interface {
	CreateAgent(ctx context.Context, agent entities.Agent) error
	GetAgent(ctx context.Context, agentID string) (entities.Agent, error)
	// EmailTaken reports whether another agent than excludeID uses email.
	EmailTaken(ctx context.Context, email string, excludeID string) (bool, error)
	// ListAgents returns agents newest first.
	ListAgents(ctx context.Context) ([]entities.Agent, error)
	// ListActiveAgents orders by created_at then id, ascending.
	ListActiveAgents(ctx context.Context) ([]entities.Agent, error)
	UpdateAgent(ctx context.Context, agent entities.Agent) error
	DeleteAgent(ctx context.Context, agentID string) error
	CountActiveAgents(ctx context.Context) (int64, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SchemaValidator checks raw agent payloads before they reach the domain.
type SchemaValidator interface {
	ValidateCreate(document any) error
	ValidateUpdate(document any) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
