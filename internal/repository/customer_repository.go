package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/issue-tracker/internal/domain"
	apperrors "github.com/spec-kit/issue-tracker/pkg/util"
)

// CustomerRepository defines directory access for customers.
type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetAll(ctx context.Context) ([]*domain.Customer, error)
}

type inMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

// NewInMemoryCustomerRepository instantiates the map-backed directory.
func NewInMemoryCustomerRepository() CustomerRepository {
	return &inMemoryCustomerRepository{customers: make(map[string]*domain.Customer)}
}

func (r *inMemoryCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[customer.ID] = customer
	return nil
}

func (r *inMemoryCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": id})
	}
	return customer, nil
}

func (r *inMemoryCustomerRepository) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		result = append(result, customer)
	}
	return result, nil
}
