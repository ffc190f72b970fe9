package domain

import (
	"time"

	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusClosed     IssueStatus = "CLOSED"
)

// IssuePriority enumerates urgency levels.
type IssuePriority string

const (
	IssuePriorityLow    IssuePriority = "LOW"
	IssuePriorityMedium IssuePriority = "MEDIUM"
	IssuePriorityHigh   IssuePriority = "HIGH"
)

// allowedTransitions is the lifecycle ordering: no skipping, no going back.
var allowedTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusOpen:       {IssueStatusInProgress},
	IssueStatusInProgress: {IssueStatusResolved},
	IssueStatusResolved:   {IssueStatusClosed},
	IssueStatusClosed:     {},
}

// CanTransition reports whether moving from current to next is legal.
func CanTransition(current, next IssueStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Issue is the aggregate for customer-reported problems. Customer and
// agent are held as non-owning ID references and resolve through the
// directory repositories.
type Issue struct {
	ID          string
	Title       string
	Description string
	CustomerID  string
	Priority    IssuePriority
	Status      IssueStatus
	AgentID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	History     []string
}

// NewIssue constructs an open, unassigned issue with an empty history.
func NewIssue(id, title, description, customerID string, priority IssuePriority) *Issue {
	now := time.Now()
	return &Issue{
		ID:          id,
		Title:       title,
		Description: description,
		CustomerID:  customerID,
		Priority:    priority,
		Status:      IssueStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Assign places the issue with the given agent and forces it into
// IN_PROGRESS. Assignment is permitted while the issue is OPEN or
// IN_PROGRESS (re-assignment); once RESOLVED or CLOSED the issue can no
// longer change hands.
func (i *Issue) Assign(agent *Agent) error {
	if i.Status != IssueStatusOpen && i.Status != IssueStatusInProgress {
		return apperrors.NewInvalidTransition("Issue must be OPEN or IN_PROGRESS to assign", map[string]any{
			"issue_id": i.ID,
			"status":   i.Status,
		})
	}
	i.AgentID = &agent.ID
	i.Status = IssueStatusInProgress
	i.UpdatedAt = time.Now()
	agent.TrackIssue(i.ID)
	i.addHistory("Issue assigned to agent " + agent.Name)
	return nil
}

// Resolve moves the issue from IN_PROGRESS to RESOLVED.
func (i *Issue) Resolve() error {
	if !CanTransition(i.Status, IssueStatusResolved) {
		return apperrors.NewInvalidTransition("Issue must be IN_PROGRESS to resolve", map[string]any{
			"issue_id": i.ID,
			"status":   i.Status,
		})
	}
	i.Status = IssueStatusResolved
	i.UpdatedAt = time.Now()
	i.addHistory("Issue resolved")
	return nil
}

// Close moves the issue from RESOLVED to its terminal CLOSED state.
func (i *Issue) Close() error {
	if !CanTransition(i.Status, IssueStatusClosed) {
		return apperrors.NewInvalidTransition("Issue must be RESOLVED to close", map[string]any{
			"issue_id": i.ID,
			"status":   i.Status,
		})
	}
	i.Status = IssueStatusClosed
	i.UpdatedAt = time.Now()
	i.addHistory("Issue closed")
	return nil
}

// addHistory appends one immutable audit entry. Entries only accumulate;
// nothing ever prunes them.
func (i *Issue) addHistory(action string) {
	i.History = append(i.History, time.Now().Format(time.RFC3339)+" - "+action)
}
