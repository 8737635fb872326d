package products

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	"github.com/Apurer/go-inventory-service/internal/durable/temporal/sequences"
)

const (
	// ProductCreationWorkflowName is the public identifier for registering the workflow.
	ProductCreationWorkflowName = "products.workflows.Creation"
	// ProductCreationTaskQueue is the queue consumed by the worker processing product workflows.
	ProductCreationTaskQueue = "PRODUCT_CREATION"
)

// ProductCreationWorkflowInput captures the payload required to create a product.
type ProductCreationWorkflowInput struct {
	Command ports.CreateProductCommand
	TraceID string
}

// ProductCreationWorkflow orchestrates the activities needed to persist a product.
func ProductCreationWorkflow(ctx workflow.Context, input ProductCreationWorkflowInput) (*domain.Product, error) {
	logger := workflow.GetLogger(ctx)
	stockID := input.Command.StockID
	logger.Info("ProductCreationWorkflow started", withTraceID(input.TraceID, "stockId", stockID)...)
	product, err := sequences.RunProductPersistenceSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ProductCreationWorkflow failed", withTraceID(input.TraceID, "stockId", stockID, "error", err)...)
		return nil, err
	}
	logger.Info("ProductCreationWorkflow completed", withTraceID(input.TraceID, "productId", product.ID)...)
	return product, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
