package ports

import (
	"context"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	apperrors "github.com/Apurer/go-inventory-service/internal/shared/errors"
)

var (
	// ErrNotFound is returned when no product is stored under the requested id.
	ErrNotFound = apperrors.NewNotFound("product")
	// ErrStockNotFound is returned when a referenced stock does not exist.
	ErrStockNotFound = apperrors.NewNotFound("stock")
)

// Repository persists products.
//
// Save upserts: a zero ID inserts and assigns one, any other ID fully replaces the stored record.
// Returned products carry their resolved Stock. Delete is idempotent.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
	FindByCategory(ctx context.Context, category domain.Category) ([]*domain.Product, error)
	FindByStockID(ctx context.Context, stockID int64) ([]*domain.Product, error)
}

// StockRepository resolves and provisions stocks.
type StockRepository interface {
	Save(ctx context.Context, stock *domain.Stock) (*domain.Stock, error)
	// GetByID returns ErrStockNotFound when the stock does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Stock, error)
	List(ctx context.Context) ([]*domain.Stock, error)
}
