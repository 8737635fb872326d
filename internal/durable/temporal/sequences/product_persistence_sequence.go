package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
)

// RunProductPersistenceSequence executes the ordered set of activities needed to persist a product.
func RunProductPersistenceSequence(ctx workflow.Context, cmd ports.CreateProductCommand) (*domain.Product, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("product persistence sequence started", "stockId", cmd.StockID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				productactivities.StockNotFoundErrorType,
				productactivities.InvalidProductErrorType,
				productactivities.IdempotencyConflictErrorType,
				productactivities.ReplayedProductDeletedType,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var product domain.Product
	err := workflow.ExecuteActivity(ctx, productactivities.AddProductActivityName, cmd).Get(ctx, &product)
	if err != nil {
		logger.Error("product persistence sequence failed", "stockId", cmd.StockID, "error", err)
		return nil, err
	}
	logger.Info("product persistence sequence completed", "productId", product.ID)
	return &product, nil
}
