package ports

import (
	"context"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	apperrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

// ErrNotFound is returned when no operator is stored under the requested id.
var ErrNotFound = apperrors.NewNotFound("operator")

// Repository persists operators.
//
// Save upserts: a zero ID inserts and assigns one, any other ID fully replaces the stored record.
// Delete is idempotent and returns nil for unknown ids.
type Repository interface {
	Save(ctx context.Context, operator *domain.Operator) (*domain.Operator, error)
	GetByID(ctx context.Context, id int64) (*domain.Operator, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Operator, error)
}
