package products

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-inventory-service/internal/domains/products/application"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

const (
	// AddProductActivityName persists a product attached to an existing stock.
	AddProductActivityName = "products.activities.AddProduct"
)

// Application error types reported by the activities. They are never retried.
const (
	StockNotFoundErrorType       = "StockNotFound"
	InvalidProductErrorType      = "InvalidProduct"
	IdempotencyConflictErrorType = "IdempotencyConflict"
	ReplayedProductDeletedType   = "ReplayedProductDeleted"
)

// Activities groups activities that operate on the products bounded context.
type Activities struct {
	creator *application.Creator
}

func NewActivities(creator *application.Creator) *Activities {
	return &Activities{creator: creator}
}

// AddProduct runs one creation command. Failures that a retry cannot fix are
// returned as non-retryable application errors.
func (a *Activities) AddProduct(ctx context.Context, cmd ports.CreateProductCommand) (*domain.Product, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.creator == nil {
		logger.Error("add product activity not initialized", "stockId", cmd.StockID)
		return nil, errors.New("add product activity not initialized")
	}
	logger.Info("AddProduct activity started", "stockId", cmd.StockID, "title", cmd.Product.Title)
	product, err := a.creator.Create(ctx, cmd)
	if err != nil {
		logger.Error("AddProduct activity failed", "stockId", cmd.StockID, "error", err)
		return nil, classify(err)
	}
	logger.Info("AddProduct activity completed", "productId", product.ID, "stockId", product.StockID)
	return product, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ports.ErrStockNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), StockNotFoundErrorType, err)
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), InvalidProductErrorType, err)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), IdempotencyConflictErrorType, err)
	case errors.Is(err, ports.ErrReplayedProductDeleted):
		return temporal.NewNonRetryableApplicationError(err.Error(), ReplayedProductDeletedType, err)
	}
	return err
}
