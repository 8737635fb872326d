package ports

import (
	"context"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

// Service exposes product use cases to adapters.
type Service interface {
	// AddProduct resolves stockID, attaches the stock and stores the product.
	// It fails with ErrStockNotFound, without saving, when the stock does not exist.
	AddProduct(ctx context.Context, product *domain.Product, stockID int64) (*domain.Product, error)
	RetrieveProduct(ctx context.Context, id int64) (*domain.Product, error)
	RetrieveAllProducts(ctx context.Context) ([]*domain.Product, error)
	RetrieveProductsByCategory(ctx context.Context, category domain.Category) ([]*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	RetrieveProductsByStock(ctx context.Context, stockID int64) ([]*domain.Product, error)
}
