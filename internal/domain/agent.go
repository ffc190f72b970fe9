package domain

// Agent models a support staff member who can own issues.
type Agent struct {
	ID           string
	Name         string
	ActiveIssues []string
}

// TrackIssue appends the issue to the agent's active list. Tracking is
// idempotent so re-assigning the same agent does not duplicate entries.
func (a *Agent) TrackIssue(issueID string) {
	for _, id := range a.ActiveIssues {
		if id == issueID {
			return
		}
	}
	a.ActiveIssues = append(a.ActiveIssues, issueID)
}

// UntrackIssue removes the issue from the agent's active list, keeping
// the remaining order intact.
func (a *Agent) UntrackIssue(issueID string) {
	for idx, id := range a.ActiveIssues {
		if id == issueID {
			a.ActiveIssues = append(a.ActiveIssues[:idx], a.ActiveIssues[idx+1:]...)
			return
		}
	}
}

// HasActiveIssue reports whether the issue is on the agent's active list.
func (a *Agent) HasActiveIssue(issueID string) bool {
	for _, id := range a.ActiveIssues {
		if id == issueID {
			return true
		}
	}
	return false
}
