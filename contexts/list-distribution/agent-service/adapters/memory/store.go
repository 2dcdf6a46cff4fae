package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"agentlists/contexts/list-distribution/agent-service/domain/entities"
	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"
	"agentlists/contexts/list-distribution/agent-service/ports"
)

type Store struct {
	mu       sync.RWMutex
	agents   map[string]entities.Agent
	sequence uint64
}

func NewStore(seed []entities.Agent) *Store {
	agents := make(map[string]entities.Agent, len(seed))
	for _, agent := range seed {
		agents[agent.ID] = agent
	}
	return &Store{agents: agents}
}

func (s *Store) CreateAgent(_ context.Context, agent entities.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.agents {
		if existing.Email == agent.Email {
			return domainerrors.ErrDuplicateEmail
		}
	}
	s.agents[agent.ID] = agent
	return nil
}

func (s *Store) GetAgent(_ context.Context, agentID string) (entities.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agent, ok := s.agents[agentID]
	if !ok {
		return entities.Agent{}, domainerrors.ErrAgentNotFound
	}
	return agent, nil
}

func (s *Store) EmailTaken(_ context.Context, email string, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, agent := range s.agents {
		if agent.Email == email && agent.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListAgents(_ context.Context) ([]entities.Agent, error) {
	items := s.snapshot(false)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (s *Store) ListActiveAgents(_ context.Context) ([]entities.Agent, error) {
	items := s.snapshot(true)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) UpdateAgent(_ context.Context, agent entities.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[agent.ID]; !ok {
		return domainerrors.ErrAgentNotFound
	}
	for _, existing := range s.agents {
		if existing.ID != agent.ID && existing.Email == agent.Email {
			return domainerrors.ErrDuplicateEmail
		}
	}
	s.agents[agent.ID] = agent
	return nil
}

func (s *Store) DeleteAgent(_ context.Context, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[agentID]; !ok {
		return domainerrors.ErrAgentNotFound
	}
	delete(s.agents, agentID)
	return nil
}

func (s *Store) CountActiveAgents(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, agent := range s.agents {
		if agent.Active {
			count++
		}
	}
	return count, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("agent-%06d", atomic.AddUint64(&s.sequence, 1)), nil
}

func (s *Store) snapshot(activeOnly bool) []entities.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Agent, 0, len(s.agents))
	for _, agent := range s.agents {
		if activeOnly && !agent.Active {
			continue
		}
		items = append(items, agent)
	}
	return items
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
