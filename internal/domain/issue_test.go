package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

func TestNewIssue(t *testing.T) {
	issue := NewIssue("I1", "Payment Failure", "Payment not going through", "C1", IssuePriorityHigh)

	assert.Equal(t, "I1", issue.ID)
	assert.Equal(t, "Payment Failure", issue.Title)
	assert.Equal(t, IssueStatusOpen, issue.Status)
	assert.Equal(t, IssuePriorityHigh, issue.Priority)
	assert.Nil(t, issue.AgentID)
	assert.Empty(t, issue.History)
	assert.False(t, issue.CreatedAt.IsZero())
	assert.Equal(t, issue.CreatedAt, issue.UpdatedAt)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current IssueStatus
		next    IssueStatus
		allowed bool
	}{
		{IssueStatusOpen, IssueStatusInProgress, true},
		{IssueStatusInProgress, IssueStatusResolved, true},
		{IssueStatusResolved, IssueStatusClosed, true},
		{IssueStatusOpen, IssueStatusResolved, false},
		{IssueStatusOpen, IssueStatusClosed, false},
		{IssueStatusInProgress, IssueStatusClosed, false},
		{IssueStatusInProgress, IssueStatusOpen, false},
		{IssueStatusResolved, IssueStatusInProgress, false},
		{IssueStatusClosed, IssueStatusOpen, false},
		{IssueStatusClosed, IssueStatusInProgress, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.current, tc.next),
			"%s -> %s", tc.current, tc.next)
	}
}

func TestIssueAssign(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	agent := &Agent{ID: "A1", Name: "Agent Smith"}

	require.NoError(t, issue.Assign(agent))

	assert.Equal(t, IssueStatusInProgress, issue.Status)
	require.NotNil(t, issue.AgentID)
	assert.Equal(t, "A1", *issue.AgentID)
	assert.True(t, agent.HasActiveIssue("I1"))
	require.Len(t, issue.History, 1)
	assert.Contains(t, issue.History[0], "Issue assigned to agent Agent Smith")
}

func TestIssueReassign(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	first := &Agent{ID: "A1", Name: "Agent Smith"}
	second := &Agent{ID: "A2", Name: "Agent Jones"}

	require.NoError(t, issue.Assign(first))
	require.NoError(t, issue.Assign(second))

	assert.Equal(t, IssueStatusInProgress, issue.Status)
	require.NotNil(t, issue.AgentID)
	assert.Equal(t, "A2", *issue.AgentID)
	assert.True(t, second.HasActiveIssue("I1"))
	assert.Len(t, issue.History, 2)
}

func TestIssueAssignRejectedAfterResolution(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	agent := &Agent{ID: "A1", Name: "Agent Smith"}
	require.NoError(t, issue.Assign(agent))
	require.NoError(t, issue.Resolve())

	err := issue.Assign(&Agent{ID: "A2", Name: "Agent Jones"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
	assert.Equal(t, "Issue must be OPEN or IN_PROGRESS to assign", err.Error())
	assert.Equal(t, IssueStatusResolved, issue.Status)
	assert.Equal(t, "A1", *issue.AgentID)

	require.NoError(t, issue.Close())
	err = issue.Assign(&Agent{ID: "A2", Name: "Agent Jones"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestIssueResolve(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	agent := &Agent{ID: "A1", Name: "Agent Smith"}
	require.NoError(t, issue.Assign(agent))

	require.NoError(t, issue.Resolve())

	assert.Equal(t, IssueStatusResolved, issue.Status)
	require.Len(t, issue.History, 2)
	assert.Contains(t, issue.History[1], "Issue resolved")
}

func TestIssueResolveRequiresInProgress(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)

	err := issue.Resolve()
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
	assert.Equal(t, "Issue must be IN_PROGRESS to resolve", err.Error())
	assert.Equal(t, IssueStatusOpen, issue.Status)
	assert.Empty(t, issue.History)
}

func TestIssueClose(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	agent := &Agent{ID: "A1", Name: "Agent Smith"}
	require.NoError(t, issue.Assign(agent))
	require.NoError(t, issue.Resolve())

	require.NoError(t, issue.Close())

	assert.Equal(t, IssueStatusClosed, issue.Status)
	require.Len(t, issue.History, 3)
	assert.Contains(t, issue.History[2], "Issue closed")
}

func TestIssueLifecycleStepsDoNotRepeat(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	require.NoError(t, issue.Assign(&Agent{ID: "A1", Name: "Agent Smith"}))
	require.NoError(t, issue.Resolve())

	err := issue.Resolve()
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
	assert.Equal(t, IssueStatusResolved, issue.Status)

	require.NoError(t, issue.Close())
	err = issue.Close()
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
	assert.Equal(t, IssueStatusClosed, issue.Status)
	assert.Len(t, issue.History, 3)
}

func TestIssueCloseRequiresResolved(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)

	err := issue.Close()
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
	assert.Equal(t, "Issue must be RESOLVED to close", err.Error())
	assert.Equal(t, IssueStatusOpen, issue.Status)

	agent := &Agent{ID: "A1", Name: "Agent Smith"}
	require.NoError(t, issue.Assign(agent))
	err = issue.Close()
	require.Error(t, err)
	assert.Equal(t, IssueStatusInProgress, issue.Status)
}

func TestIssueHistoryFormat(t *testing.T) {
	issue := NewIssue("I1", "Login broken", "Cannot sign in", "C1", IssuePriorityMedium)
	require.NoError(t, issue.Assign(&Agent{ID: "A1", Name: "Agent Smith"}))

	require.Len(t, issue.History, 1)
	entry := issue.History[0]

	// Entries look like "<RFC3339 timestamp> - <action>".
	parts := strings.SplitN(entry, " - ", 2)
	require.Len(t, parts, 2)
	_, err := time.Parse(time.RFC3339, parts[0])
	require.NoError(t, err)
	assert.Equal(t, "Issue assigned to agent Agent Smith", parts[1])
}
