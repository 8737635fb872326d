package application

import (
	"context"
	"fmt"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
)

// Service orchestrates operator use cases. Repository failures are returned unchanged.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RetrieveAllOperators(ctx context.Context) ([]*domain.Operator, error) {
	return s.repo.List(ctx)
}

func (s *Service) AddOperator(ctx context.Context, operator *domain.Operator) (*domain.Operator, error) {
	if operator == nil {
		return nil, fmt.Errorf("%w: operator is nil", ErrInvalidInput)
	}
	return s.repo.Save(ctx, operator)
}

// DeleteOperator removes the operator; unknown ids are a no-op.
func (s *Service) DeleteOperator(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// UpdateOperator replaces the stored record. It shares the upsert of AddOperator;
// the distinction is the caller's intent.
func (s *Service) UpdateOperator(ctx context.Context, operator *domain.Operator) (*domain.Operator, error) {
	if operator == nil {
		return nil, fmt.Errorf("%w: operator is nil", ErrInvalidInput)
	}
	return s.repo.Save(ctx, operator)
}

func (s *Service) RetrieveOperator(ctx context.Context, id int64) (*domain.Operator, error) {
	return s.repo.GetByID(ctx, id)
}

var _ ports.Service = (*Service)(nil)
