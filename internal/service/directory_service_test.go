package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/issue-tracker/internal/repository"
	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

func newDirectoryService() *DirectoryService {
	return NewDirectoryService(DirectoryDependencies{
		CustomerRepo: repository.NewInMemoryCustomerRepository(),
		AgentRepo:    repository.NewInMemoryAgentRepository(),
	})
}

func TestRegisterCustomer(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	customer, err := s.RegisterCustomer(ctx, RegisterCustomerInput{
		ID:    "C1",
		Name:  "  John Doe  ",
		Email: "john@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "C1", customer.ID)
	assert.Equal(t, "John Doe", customer.Name)

	got, err := s.GetCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, customer, got)
}

func TestRegisterCustomerGeneratesID(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	customer, err := s.RegisterCustomer(ctx, RegisterCustomerInput{
		Name:  "John Doe",
		Email: "john@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, customer.ID)
}

func TestRegisterCustomerValidation(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	_, err := s.RegisterCustomer(ctx, RegisterCustomerInput{Email: "john@example.com"})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)

	_, err = s.RegisterCustomer(ctx, RegisterCustomerInput{Name: "John Doe"})
	require.Error(t, err)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
}

func TestReregisterCustomerUpserts(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	_, err := s.RegisterCustomer(ctx, RegisterCustomerInput{ID: "C1", Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)
	_, err = s.RegisterCustomer(ctx, RegisterCustomerInput{ID: "C1", Name: "John Q. Doe", Email: "john.q@example.com"})
	require.NoError(t, err)

	got, err := s.GetCustomer(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "John Q. Doe", got.Name)
	assert.Equal(t, "john.q@example.com", got.Email)

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)
}

func TestRegisterAgent(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	agent, err := s.RegisterAgent(ctx, RegisterAgentInput{ID: "A1", Name: "Agent Smith"})
	require.NoError(t, err)
	assert.Equal(t, "A1", agent.ID)
	assert.NotNil(t, agent.ActiveIssues)
	assert.Empty(t, agent.ActiveIssues)

	got, err := s.GetAgent(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, agent, got)
}

func TestReregisterAgentPreservesActiveIssues(t *testing.T) {
	ctx := context.Background()
	agentRepo := repository.NewInMemoryAgentRepository()
	s := NewDirectoryService(DirectoryDependencies{
		CustomerRepo: repository.NewInMemoryCustomerRepository(),
		AgentRepo:    agentRepo,
	})

	_, err := s.RegisterAgent(ctx, RegisterAgentInput{ID: "A1", Name: "Agent Smith"})
	require.NoError(t, err)

	stored, err := agentRepo.GetByID(ctx, "A1")
	require.NoError(t, err)
	stored.TrackIssue("I1")

	updated, err := s.RegisterAgent(ctx, RegisterAgentInput{ID: "A1", Name: "Agent Smith II"})
	require.NoError(t, err)
	assert.Equal(t, "Agent Smith II", updated.Name)
	assert.True(t, updated.HasActiveIssue("I1"))

	agents, err := s.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}

func TestRegisterAgentValidation(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	_, err := s.RegisterAgent(ctx, RegisterAgentInput{ID: "A1", Name: "   "})
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperrors.CodeValidationFailed, domainErr.Code)
}

func TestDirectoryLookupsMiss(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	_, err := s.GetCustomer(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = s.GetAgent(ctx, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDirectoryLists(t *testing.T) {
	ctx := context.Background()
	s := newDirectoryService()

	_, err := s.RegisterCustomer(ctx, RegisterCustomerInput{ID: "C1", Name: "John Doe", Email: "john@example.com"})
	require.NoError(t, err)
	_, err = s.RegisterCustomer(ctx, RegisterCustomerInput{ID: "C2", Name: "Jane Roe", Email: "jane@example.com"})
	require.NoError(t, err)
	_, err = s.RegisterAgent(ctx, RegisterAgentInput{ID: "A1", Name: "Agent Smith"})
	require.NoError(t, err)

	customers, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	agents, err := s.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}
