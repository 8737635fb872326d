package products

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/go-inventory-service/internal/domains/products/adapters/memory"
	"github.com/Apurer/go-inventory-service/internal/domains/products/application"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

func TestAddProduct_Activity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	stocks := memory.NewStockRepository()
	tx := memory.NewTransactor()
	svc := application.NewService(memory.NewRepository(stocks), stocks, application.WithTransactor(tx))
	acts := NewActivities(application.NewCreator(svc, memory.NewIdempotencyStore(), tx))
	env.RegisterActivity(acts.AddProduct)

	stock, err := stocks.Save(context.Background(), domain.NewStock(0, "Main"))
	require.NoError(t, err)
	cmd := ports.CreateProductCommand{
		Product:        *domain.NewProduct(0, "Scarf", 15, 3, domain.CategoryClothing),
		StockID:        stock.ID,
		IdempotencyKey: "k1",
	}

	val, err := env.ExecuteActivity(acts.AddProduct, cmd)
	require.NoError(t, err)
	var first domain.Product
	require.NoError(t, val.Get(&first))
	assert.Equal(t, stock.ID, first.StockID)

	val, err = env.ExecuteActivity(acts.AddProduct, cmd)
	require.NoError(t, err)
	var replay domain.Product
	require.NoError(t, val.Get(&replay))
	assert.Equal(t, first.ID, replay.ID)
}

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		err      error
		wantType string
	}{
		{ports.ErrStockNotFound, StockNotFoundErrorType},
		{application.ErrInvalidInput, InvalidProductErrorType},
		{ports.ErrIdempotencyConflict, IdempotencyConflictErrorType},
		{ports.ErrReplayedProductDeleted, ReplayedProductDeletedType},
	} {
		var appErr *temporal.ApplicationError
		require.True(t, errors.As(classify(tc.err), &appErr))
		assert.Equal(t, tc.wantType, appErr.Type())
		assert.True(t, appErr.NonRetryable())
	}

	transient := errors.New("connection reset")
	assert.Same(t, transient, classify(transient))
}

func TestAddProduct_NotInitialized(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	acts := NewActivities(nil)
	env.RegisterActivity(acts.AddProduct)

	_, err := env.ExecuteActivity(acts.AddProduct, ports.CreateProductCommand{StockID: 1})
	require.Error(t, err)
}
