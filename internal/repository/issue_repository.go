package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/issue-tracker/internal/domain"
	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

// IssueRepository encapsulates issue persistence. Save is an upsert keyed
// by issue ID; any storage backend must satisfy exactly this contract.
type IssueRepository interface {
	Save(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	GetAll(ctx context.Context) ([]*domain.Issue, error)
}

// inMemoryIssueRepository keeps issues in a map guarded by one coarse
// lock. No eviction, no capacity bound, nothing survives a restart.
type inMemoryIssueRepository struct {
	mu     sync.RWMutex
	issues map[string]*domain.Issue
}

// NewInMemoryIssueRepository instantiates the map-backed repository.
func NewInMemoryIssueRepository() IssueRepository {
	return &inMemoryIssueRepository{issues: make(map[string]*domain.Issue)}
}

func (r *inMemoryIssueRepository) Save(ctx context.Context, issue *domain.Issue) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues[issue.ID] = issue
	return nil
}

func (r *inMemoryIssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.issues[id]
	if !ok {
		return nil, apperrors.NewNotFound("issue", map[string]any{"issue_id": id})
	}
	return issue, nil
}

// GetAll returns a snapshot of all stored issues in unspecified order.
func (r *inMemoryIssueRepository) GetAll(ctx context.Context) ([]*domain.Issue, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		result = append(result, issue)
	}
	return result, nil
}
