package ports

import (
	"context"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
)

// Service exposes operator use cases to adapters.
type Service interface {
	RetrieveAllOperators(ctx context.Context) ([]*domain.Operator, error)
	AddOperator(ctx context.Context, operator *domain.Operator) (*domain.Operator, error)
	DeleteOperator(ctx context.Context, id int64) error
	UpdateOperator(ctx context.Context, operator *domain.Operator) (*domain.Operator, error)
	RetrieveOperator(ctx context.Context, id int64) (*domain.Operator, error)
}
