package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/issue-tracker/internal/domain"
	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

// AgentRepository defines directory access for support agents.
type AgentRepository interface {
	Save(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetAll(ctx context.Context) ([]*domain.Agent, error)
}

type inMemoryAgentRepository struct {
	mu     sync.RWMutex
	agents map[string]*domain.Agent
}

// NewInMemoryAgentRepository instantiates the map-backed directory.
func NewInMemoryAgentRepository() AgentRepository {
	return &inMemoryAgentRepository{agents: make(map[string]*domain.Agent)}
}

func (r *inMemoryAgentRepository) Save(ctx context.Context, agent *domain.Agent) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agent.ID] = agent
	return nil
}

func (r *inMemoryAgentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
	}
	return agent, nil
}

func (r *inMemoryAgentRepository) GetAll(ctx context.Context) ([]*domain.Agent, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		result = append(result, agent)
	}
	return result, nil
}
