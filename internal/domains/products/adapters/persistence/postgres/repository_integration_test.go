//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Apurer/go-inventory-service/internal/domains/products/application"
	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	platformpostgres "github.com/Apurer/go-inventory-service/internal/platform/postgres"
	"github.com/Apurer/go-inventory-service/internal/platform/postgres/pgtest"
)

type fixture struct {
	db       *gorm.DB
	products *Repository
	stocks   *StockRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := pgtest.Start(t)
	return fixture{db: db, products: NewRepository(db), stocks: NewStockRepository(db)}
}

func (f fixture) stock(t *testing.T, name string) *domain.Stock {
	t.Helper()
	stock, err := f.stocks.Save(context.Background(), domain.NewStock(0, name))
	require.NoError(t, err)
	return stock
}

func TestRepository_SavePreloadsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stock := f.stock(t, "Main")

	product := domain.NewProduct(0, "Laptop", 999.99, 3, domain.CategoryElectronics)
	product.StockID = stock.ID
	saved, err := f.products.Save(ctx, product)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	require.NotNil(t, saved.Stock)
	assert.Equal(t, "Main", saved.Stock.Name)
	assert.Equal(t, stock.ID, saved.StockID)
	assert.InDelta(t, 999.99, saved.Price, 0.0001)
}

func TestRepository_SaveUnknownStock(t *testing.T) {
	f := newFixture(t)
	product := domain.NewProduct(0, "Ghost", 1, 1, domain.CategoryBooks)
	product.StockID = 4242

	_, err := f.products.Save(context.Background(), product)
	require.ErrorIs(t, err, ports.ErrStockNotFound)
}

func TestRepository_FiltersAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.stock(t, "A")
	b := f.stock(t, "B")
	for _, p := range []struct {
		title    string
		category domain.Category
		stock    int64
	}{
		{"Laptop", domain.CategoryElectronics, a.ID},
		{"Novel", domain.CategoryBooks, a.ID},
		{"Atlas", domain.CategoryBooks, b.ID},
	} {
		product := domain.NewProduct(0, p.title, 1, 1, p.category)
		product.StockID = p.stock
		_, err := f.products.Save(ctx, product)
		require.NoError(t, err)
	}

	books, err := f.products.FindByCategory(ctx, domain.CategoryBooks)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "B", books[1].Stock.Name)

	clothing, err := f.products.FindByCategory(ctx, domain.CategoryClothing)
	require.NoError(t, err)
	assert.Empty(t, clothing)

	inA, err := f.products.FindByStockID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, inA, 2)

	all, err := f.products.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, f.products.Delete(ctx, all[0].ID))
	require.NoError(t, f.products.Delete(ctx, all[0].ID))
	_, err = f.products.GetByID(ctx, all[0].ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestStockRepository_ExplicitIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.stocks.Save(ctx, domain.NewStock(10, "Ten"))
	require.NoError(t, err)
	next := f.stock(t, "Next")
	assert.Equal(t, int64(11), next.ID)

	renamed, err := f.stocks.Save(ctx, domain.NewStock(10, "Renamed"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	_, err = f.stocks.GetByID(ctx, 99)
	require.ErrorIs(t, err, ports.ErrStockNotFound)
}

func TestService_StockCannotBeDeletedWhileProductCreationHoldsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stock := f.stock(t, "Contended")
	tx := platformpostgres.NewTransactor(f.db)

	locked := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := f.stocks.GetByID(ctx, stock.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			product := domain.NewProduct(0, "Held", 1, 1, domain.CategoryBooks)
			product.StockID = stock.ID
			_, err := f.products.Save(ctx, product)
			return err
		})
	}()
	<-locked

	deleted := make(chan error, 1)
	go func() {
		deleted <- f.db.WithContext(ctx).Exec("DELETE FROM stocks WHERE id = ?", stock.ID).Error
	}()
	select {
	case err := <-deleted:
		t.Fatalf("stock delete should block while the share lock is held, got %v", err)
	case <-time.After(300 * time.Millisecond):
	}
	close(release)
	wg.Wait()

	err := <-deleted
	require.Error(t, err, "stock with products must not be deletable")
	products, err := f.products.FindByStockID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestService_AddProductInTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := application.NewService(f.products, f.stocks, application.WithTransactor(platformpostgres.NewTransactor(f.db)))
	stock := f.stock(t, "Main")

	saved, err := svc.AddProduct(ctx, domain.NewProduct(0, "Shirt", 19.5, 5, domain.CategoryClothing), stock.ID)
	require.NoError(t, err)
	assert.Equal(t, stock.ID, saved.Stock.ID)

	_, err = svc.AddProduct(ctx, domain.NewProduct(0, "Shirt", 19.5, 5, domain.CategoryClothing), 999)
	require.ErrorIs(t, err, ports.ErrStockNotFound)

	all, err := svc.RetrieveAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIdempotencyStore_ClaimAndComplete(t *testing.T) {
	f := newFixture(t)
	store := NewIdempotencyStore(f.db)
	ctx := context.Background()

	claim, err := store.Claim(ctx, "k", "h")
	require.NoError(t, err)
	assert.False(t, claim.Completed())
	assert.False(t, claim.ClaimedAt.IsZero())

	require.NoError(t, store.Complete(ctx, "k", 1))
	again, err := store.Claim(ctx, "k", "x")
	require.NoError(t, err)
	assert.Equal(t, "h", again.RequestHash)
	assert.Equal(t, int64(1), again.ProductID)

	require.Error(t, store.Complete(ctx, "unknown", 1))
}

func TestCreator_RetryAfterFailedCompletionCreatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx := platformpostgres.NewTransactor(f.db)
	svc := application.NewService(f.products, f.stocks, application.WithTransactor(tx))
	store := NewIdempotencyStore(f.db)
	stock := f.stock(t, "Main")
	cmd := ports.CreateProductCommand{
		Product:        *domain.NewProduct(0, "Novel", 12, 1, domain.CategoryBooks),
		StockID:        stock.ID,
		IdempotencyKey: "order-1",
	}

	_, err := application.NewCreator(svc, failingCompletion{store}, tx).Create(ctx, cmd)
	require.Error(t, err)
	all, err := svc.RetrieveAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	creator := application.NewCreator(svc, store, tx)
	created, err := creator.Create(ctx, cmd)
	require.NoError(t, err)
	replayed, err := creator.Create(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, replayed.ID)
}

func TestCreator_ConcurrentSameKeyCreatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tx := platformpostgres.NewTransactor(f.db)
	svc := application.NewService(f.products, f.stocks, application.WithTransactor(tx))
	creator := application.NewCreator(svc, NewIdempotencyStore(f.db), tx)
	stock := f.stock(t, "Main")
	cmd := ports.CreateProductCommand{
		Product:        *domain.NewProduct(0, "Novel", 12, 1, domain.CategoryBooks),
		StockID:        stock.ID,
		IdempotencyKey: "order-2",
	}

	const callers = 4
	ids := make([]int64, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			product, err := creator.Create(ctx, cmd)
			errs[i] = err
			if product != nil {
				ids[i] = product.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	products, err := f.products.FindByStockID(ctx, stock.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

type failingCompletion struct {
	ports.IdempotencyStore
}

func (failingCompletion) Complete(context.Context, string, int64) error {
	return errors.New("connection reset")
}
