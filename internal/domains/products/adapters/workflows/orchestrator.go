package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-inventory-service/internal/domains/products/application"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
	productworkflows "github.com/Apurer/go-inventory-service/internal/durable/temporal/workflows/products"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalProductWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineProductWorkflows)(nil)
)

// productCreationTimeout bounds a creation run, covering every activity attempt, so a
// caller waiting on the result fails instead of hanging when no worker polls the queue.
const productCreationTimeout = 10 * time.Minute

// workflowStarter is the subset of client.Client used to run product workflows.
type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	GetWorkflow(ctx context.Context, workflowID string, runID string) client.WorkflowRun
}

// TemporalProductWorkflows starts product workflows on a Temporal cluster.
type TemporalProductWorkflows struct {
	client    workflowStarter
	taskQueue string
}

// NewTemporalProductWorkflows wires a Temporal client into the orchestrator.
func NewTemporalProductWorkflows(c client.Client) *TemporalProductWorkflows {
	return &TemporalProductWorkflows{client: c, taskQueue: productworkflows.ProductCreationTaskQueue}
}

// CreateProduct starts the creation workflow and waits for its result. A command whose
// idempotency key already started a workflow returns that workflow's result.
func (o *TemporalProductWorkflows) CreateProduct(ctx context.Context, cmd ports.CreateProductCommand) (*domain.Product, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal product workflows not configured")
	}
	traceID := workflowTraceID(ctx)
	workflowID := buildProductCreationWorkflowID(cmd, traceID)
	options := client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                o.taskQueue,
		WorkflowExecutionTimeout: productCreationTimeout,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		productworkflows.ProductCreationWorkflowName,
		productworkflows.ProductCreationWorkflowInput{Command: cmd, TraceID: traceID},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) || strings.TrimSpace(cmd.IdempotencyKey) == "" {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var product domain.Product
	if err := run.Get(ctx, &product); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &product, nil
}

// InlineProductWorkflows executes creation directly without Temporal, useful for tests or dev fallbacks.
type InlineProductWorkflows struct {
	creator *application.Creator
}

func NewInlineProductWorkflows(creator *application.Creator) *InlineProductWorkflows {
	return &InlineProductWorkflows{creator: creator}
}

// CreateProduct delegates to the creator without durable orchestration.
func (o *InlineProductWorkflows) CreateProduct(ctx context.Context, cmd ports.CreateProductCommand) (*domain.Product, error) {
	if o == nil || o.creator == nil {
		return nil, errors.New("inline product workflows not configured")
	}
	return o.creator.Create(ctx, cmd)
}

// translateWorkflowError maps the application error types raised by the activity back
// to the sentinels the inline path returns.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case productactivities.StockNotFoundErrorType:
		return ports.ErrStockNotFound
	case productactivities.InvalidProductErrorType:
		return fmt.Errorf("%w: %s", application.ErrInvalidInput, appErr.Error())
	case productactivities.IdempotencyConflictErrorType:
		return ports.ErrIdempotencyConflict
	case productactivities.ReplayedProductDeletedType:
		return ports.ErrReplayedProductDeleted
	}
	return err
}

// buildProductCreationWorkflowID derives a deterministic id from the idempotency key.
// Without a key every call gets a unique id, prefixed with the trace id when there is one.
func buildProductCreationWorkflowID(cmd ports.CreateProductCommand, traceID string) string {
	if key := strings.TrimSpace(cmd.IdempotencyKey); key != "" {
		return fmt.Sprintf("product-creation-idem-%s", hashIdempotencyKey(key))
	}
	if traceID != "" {
		return fmt.Sprintf("product-creation-%d-%s-%s", cmd.StockID, traceID, uuid.NewString()[:8])
	}
	return fmt.Sprintf("product-creation-%d-%s", cmd.StockID, uuid.NewString())
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
