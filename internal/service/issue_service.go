package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/issue-tracker/internal/domain"
	"github.com/spec-kit/issue-tracker/internal/events"
	"github.com/spec-kit/issue-tracker/internal/observability"
	"github.com/spec-kit/issue-tracker/internal/repository"
	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

// IssueService coordinates the issue lifecycle. It is the only surface
// external callers should use; storage stays behind the repository
// capabilities injected at construction.
type IssueService struct {
	issues     repository.IssueRepository
	customers  repository.CustomerRepository
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics

	// mu serializes lifecycle mutations so each lookup-transition-save
	// runs as one critical section. Events are published after it is
	// released, so a synchronous subscriber may call back into the
	// service. Reads take repository snapshots and skip it.
	mu sync.Mutex
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo    repository.IssueRepository
	CustomerRepo repository.CustomerRepository
	AgentRepo    repository.AgentRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
}

// CreateIssueInput describes issue creation payload.
type CreateIssueInput struct {
	Title       string
	Description string
	CustomerID  string
	Priority    domain.IssuePriority
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	return &IssueService{
		issues:     deps.IssueRepo,
		customers:  deps.CustomerRepo,
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
	}
}

// CreateIssue opens a new issue for a registered customer and persists it
// immediately.
func (s *IssueService) CreateIssue(ctx context.Context, input CreateIssueInput) (*domain.Issue, error) {
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, s.fail(observability.OpIssueCreated, err)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.IssuePriorityMedium
	}

	issue := domain.NewIssue(
		uuid.NewString(),
		strings.TrimSpace(input.Title),
		strings.TrimSpace(input.Description),
		input.CustomerID,
		priority,
	)
	if err := s.issues.Save(ctx, issue); err != nil {
		return nil, s.fail(observability.OpIssueCreated, err)
	}

	s.metrics.RecordOperation(observability.OpIssueCreated)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Payload: events.IssueCreatedPayload{
			CustomerID: issue.CustomerID,
			Priority:   issue.Priority,
			Title:      issue.Title,
		},
	})
	return issue, nil
}

// AssignIssue places an issue with an agent, forcing it into IN_PROGRESS.
// On re-assignment the previous agent's active list is corrected.
func (s *IssueService) AssignIssue(ctx context.Context, issueID, agentID string) (*domain.Issue, error) {
	issue, previousAgentID, err := s.assignIssue(ctx, issueID, agentID)
	if err != nil {
		return nil, s.fail(observability.OpIssueAssigned, err)
	}

	s.metrics.RecordOperation(observability.OpIssueAssigned)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueAssigned,
		IssueID: issue.ID,
		Payload: events.IssueAssignedPayload{
			AgentID:         agentID,
			PreviousAgentID: previousAgentID,
		},
	})
	return issue, nil
}

// assignIssue is the lookup-transition-save critical section of
// AssignIssue.
func (s *IssueService) assignIssue(ctx context.Context, issueID, agentID string) (*domain.Issue, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, nil, err
	}
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, nil, err
	}

	previousAgentID := issue.AgentID
	if err := issue.Assign(agent); err != nil {
		return nil, nil, err
	}

	if previousAgentID != nil && *previousAgentID != agent.ID {
		// The previous owner may have left the directory; the new
		// assignment proceeds regardless.
		if previous, err := s.agents.GetByID(ctx, *previousAgentID); err == nil {
			previous.UntrackIssue(issue.ID)
			if err := s.agents.Save(ctx, previous); err != nil {
				return nil, nil, err
			}
		}
	}

	if err := s.agents.Save(ctx, agent); err != nil {
		return nil, nil, err
	}
	if err := s.issues.Save(ctx, issue); err != nil {
		return nil, nil, err
	}
	return issue, previousAgentID, nil
}

// ResolveIssue moves an IN_PROGRESS issue to RESOLVED.
func (s *IssueService) ResolveIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, oldStatus, err := s.resolveIssue(ctx, issueID)
	if err != nil {
		return nil, s.fail(observability.OpIssueResolved, err)
	}

	s.metrics.RecordOperation(observability.OpIssueResolved)
	s.publishStatusChanged(ctx, issue.ID, oldStatus, domain.IssueStatusResolved)
	return issue, nil
}

// resolveIssue is the lookup-transition-save critical section of
// ResolveIssue.
func (s *IssueService) resolveIssue(ctx context.Context, issueID string) (*domain.Issue, domain.IssueStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, "", err
	}

	oldStatus := issue.Status
	if err := issue.Resolve(); err != nil {
		return nil, "", err
	}
	if err := s.issues.Save(ctx, issue); err != nil {
		return nil, "", err
	}
	return issue, oldStatus, nil
}

// CloseIssue moves a RESOLVED issue to its terminal CLOSED state.
func (s *IssueService) CloseIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, oldStatus, err := s.closeIssue(ctx, issueID)
	if err != nil {
		return nil, s.fail(observability.OpIssueClosed, err)
	}

	s.metrics.RecordOperation(observability.OpIssueClosed)
	s.publishStatusChanged(ctx, issue.ID, oldStatus, domain.IssueStatusClosed)
	return issue, nil
}

// closeIssue is the lookup-transition-save critical section of CloseIssue.
func (s *IssueService) closeIssue(ctx context.Context, issueID string) (*domain.Issue, domain.IssueStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, "", err
	}

	oldStatus := issue.Status
	if err := issue.Close(); err != nil {
		return nil, "", err
	}
	if err := s.issues.Save(ctx, issue); err != nil {
		return nil, "", err
	}
	return issue, oldStatus, nil
}

// GetIssue fetches a single issue by ID.
func (s *IssueService) GetIssue(ctx context.Context, issueID string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issue, nil
}

// GetIssuesByStatus filters the full repository snapshot by exact status
// match. Order follows the repository's GetAll order.
func (s *IssueService) GetIssuesByStatus(ctx context.Context, status domain.IssueStatus) ([]*domain.Issue, error) {
	all, err := s.issues.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	matched := make([]*domain.Issue, 0)
	for _, issue := range all {
		if issue.Status == status {
			matched = append(matched, issue)
		}
	}
	return matched, nil
}

// GetIssuesByAgent returns issues currently assigned to the agent.
// Unassigned issues are never included.
func (s *IssueService) GetIssuesByAgent(ctx context.Context, agentID string) ([]*domain.Issue, error) {
	all, err := s.issues.GetAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	matched := make([]*domain.Issue, 0)
	for _, issue := range all {
		if issue.AgentID != nil && *issue.AgentID == agentID {
			matched = append(matched, issue)
		}
	}
	return matched, nil
}

// fail normalizes err into the domain taxonomy and counts it against op.
func (s *IssueService) fail(op string, err error) error {
	domainErr := apperrors.ToDomainError(err)
	s.metrics.RecordError(op, domainErr.Code)
	return domainErr
}

func (s *IssueService) publishStatusChanged(ctx context.Context, issueID string, oldStatus, newStatus domain.IssueStatus) {
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issueID,
		Payload: events.IssueStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
