package application

import (
	"context"
	"fmt"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

// Service orchestrates product use cases. Repository failures are returned unchanged.
type Service struct {
	products ports.Repository
	stocks   ports.StockRepository
	tx       ports.Transactor
}

type Option func(*Service)

// WithTransactor scopes the stock lookup and product save of AddProduct to one transaction.
func WithTransactor(tx ports.Transactor) Option {
	return func(s *Service) {
		if tx != nil {
			s.tx = tx
		}
	}
}

func NewService(products ports.Repository, stocks ports.StockRepository, opts ...Option) *Service {
	s := &Service{products: products, stocks: stocks, tx: ports.NoopTransactor{}}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddProduct stores a copy of product attached to the stock identified by stockID.
// Any stock already set on product is replaced; product itself is left untouched.
func (s *Service) AddProduct(ctx context.Context, product *domain.Product, stockID int64) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is nil", ErrInvalidInput)
	}
	if !product.Category.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, domain.ErrUnknownCategory, product.Category)
	}
	var saved *domain.Product
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		stock, err := s.stocks.GetByID(ctx, stockID)
		if err != nil {
			return err
		}
		candidate := product.Clone()
		candidate.AttachStock(stock)
		saved, err = s.products.Save(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Service) RetrieveProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *Service) RetrieveAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) RetrieveProductsByCategory(ctx context.Context, category domain.Category) ([]*domain.Product, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, domain.ErrUnknownCategory, category)
	}
	return s.products.FindByCategory(ctx, category)
}

// DeleteProduct removes the product; unknown ids are a no-op.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) RetrieveProductsByStock(ctx context.Context, stockID int64) ([]*domain.Product, error) {
	return s.products.FindByStockID(ctx, stockID)
}

var _ ports.Service = (*Service)(nil)
