package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter. When built with a
// StockRepository, returned products carry the current state of their stock.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
	stocks   *StockRepository
}

func NewRepository(stocks *StockRepository) *Repository {
	return &Repository{products: map[int64]*domain.Product{}, stocks: stocks}
}

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := product.Clone()
	if r.stocks != nil {
		if _, ok := r.stocks.lookup(clone.StockID); !ok {
			return nil, ports.ErrStockNotFound
		}
	}
	r.mu.Lock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	previous, existed := r.products[clone.ID]
	r.products[clone.ID] = clone
	r.mu.Unlock()
	onRollback(ctx, func() { r.restore(clone.ID, previous, existed) })
	return r.hydrate(clone.Clone()), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	product, ok := r.products[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.hydrate(product.Clone()), nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	previous, existed := r.products[id]
	delete(r.products, id)
	r.mu.Unlock()
	if existed {
		onRollback(ctx, func() { r.restore(id, previous, true) })
	}
	return nil
}

func (r *Repository) restore(id int64, product *domain.Product, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existed {
		r.products[id] = product
		return
	}
	delete(r.products, id)
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	return r.filter(func(*domain.Product) bool { return true }), nil
}

func (r *Repository) FindByCategory(_ context.Context, category domain.Category) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.Category == category }), nil
}

func (r *Repository) FindByStockID(_ context.Context, stockID int64) ([]*domain.Product, error) {
	return r.filter(func(p *domain.Product) bool { return p.StockID == stockID }), nil
}

// filter returns matching products ordered by id.
func (r *Repository) filter(match func(*domain.Product) bool) []*domain.Product {
	r.mu.RLock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if match(product) {
			list = append(list, product.Clone())
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(list, func(a, b *domain.Product) int { return cmp.Compare(a.ID, b.ID) })
	for _, product := range list {
		r.hydrate(product)
	}
	return list
}

func (r *Repository) hydrate(product *domain.Product) *domain.Product {
	if r.stocks == nil || product == nil {
		return product
	}
	if stock, ok := r.stocks.lookup(product.StockID); ok {
		product.Stock = stock
	}
	return product
}
