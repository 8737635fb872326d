package ports

import (
	"context"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

// CreateProductCommand is the serializable request for a durable product creation.
type CreateProductCommand struct {
	Product domain.Product
	StockID int64
	// IdempotencyKey makes retried commands resolve to the same product when set.
	IdempotencyKey string
}

// WorkflowOrchestrator exposes durable workflow operations of the products bounded context.
type WorkflowOrchestrator interface {
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error)
}
