package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/issue-tracker/internal/domain"
	"github.com/spec-kit/issue-tracker/internal/repository"
	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

// DirectoryService manages the customer and agent registries that issues
// reference by ID.
type DirectoryService struct {
	customers repository.CustomerRepository
	agents    repository.AgentRepository
}

// DirectoryDependencies bundles collaborators for the directory service.
type DirectoryDependencies struct {
	CustomerRepo repository.CustomerRepository
	AgentRepo    repository.AgentRepository
}

// RegisterCustomerInput describes customer registration payload. An empty
// ID requests a generated one.
type RegisterCustomerInput struct {
	ID    string
	Name  string
	Email string
}

// RegisterAgentInput describes agent registration payload.
type RegisterAgentInput struct {
	ID   string
	Name string
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		customers: deps.CustomerRepo,
		agents:    deps.AgentRepo,
	}
}

// RegisterCustomer validates and stores a customer. Registering an
// existing ID replaces the stored record.
func (s *DirectoryService) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Customer name is required", nil)
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("Customer email is required", nil)
	}

	customer := &domain.Customer{
		ID:    input.ID,
		Name:  name,
		Email: email,
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// RegisterAgent validates and stores an agent. Re-registering an existing
// ID updates identity fields only; the active list stays with the agent,
// since assignment is the sole operation that edits it.
func (s *DirectoryService) RegisterAgent(ctx context.Context, input RegisterAgentInput) (*domain.Agent, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("Agent name is required", nil)
	}

	agent := &domain.Agent{
		ID:           input.ID,
		Name:         name,
		ActiveIssues: make([]string, 0),
	}
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	} else if existing, err := s.agents.GetByID(ctx, agent.ID); err == nil {
		agent.ActiveIssues = existing.ActiveIssues
	}
	if err := s.agents.Save(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// GetCustomer fetches a customer by ID.
func (s *DirectoryService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customer, nil
}

// GetAgent fetches an agent by ID.
func (s *DirectoryService) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}

// ListCustomers returns all registered customers.
func (s *DirectoryService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.customers.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return customers, nil
}

// ListAgents returns all registered agents.
func (s *DirectoryService) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	agents, err := s.agents.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}
