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

var _ ports.StockRepository = (*StockRepository)(nil)

// StockRepository is an in-memory stock persistence adapter.
type StockRepository struct {
	mu     sync.RWMutex
	stocks map[int64]*domain.Stock
	nextID int64
}

func NewStockRepository() *StockRepository {
	return &StockRepository{stocks: map[int64]*domain.Stock{}}
}

func (r *StockRepository) Save(ctx context.Context, stock *domain.Stock) (*domain.Stock, error) {
	if stock == nil {
		return nil, errors.New("stock is nil")
	}
	clone := stock.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	previous, existed := r.stocks[clone.ID]
	r.stocks[clone.ID] = clone
	onRollback(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if existed {
			r.stocks[clone.ID] = previous
			return
		}
		delete(r.stocks, clone.ID)
	})
	return clone.Clone(), nil
}

func (r *StockRepository) GetByID(_ context.Context, id int64) (*domain.Stock, error) {
	stock, ok := r.lookup(id)
	if !ok {
		return nil, ports.ErrStockNotFound
	}
	return stock, nil
}

func (r *StockRepository) List(_ context.Context) ([]*domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Stock, 0, len(r.stocks))
	for _, stock := range r.stocks {
		list = append(list, stock.Clone())
	}
	slices.SortFunc(list, func(a, b *domain.Stock) int { return cmp.Compare(a.ID, b.ID) })
	return list, nil
}

func (r *StockRepository) lookup(id int64) (*domain.Stock, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stock, ok := r.stocks[id]
	if !ok {
		return nil, false
	}
	return stock.Clone(), true
}
