package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory operator persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	operators map[int64]*domain.Operator
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{operators: map[int64]*domain.Operator{}}
}

func (r *Repository) Save(_ context.Context, operator *domain.Operator) (*domain.Operator, error) {
	if operator == nil {
		return nil, errors.New("operator is nil")
	}
	clone := operator.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.operators[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	operator, ok := r.operators[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return operator.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.operators, id)
	return nil
}

// List returns the operators ordered by id.
func (r *Repository) List(_ context.Context) ([]*domain.Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Operator, 0, len(r.operators))
	for _, operator := range r.operators {
		list = append(list, operator.Clone())
	}
	slices.SortFunc(list, func(a, b *domain.Operator) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}
