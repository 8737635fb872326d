package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

// Creator executes creation commands. A command carrying an idempotency key claims the
// key, creates the product and completes the claim in one unit of work, so a repeated
// key with the same payload returns the product created first.
type Creator struct {
	service ports.Service
	store   ports.IdempotencyStore
	tx      ports.Transactor
}

// NewCreator wires the product service, an optional idempotency store and the transactor
// the service's repositories share. A nil transactor runs the steps without one.
func NewCreator(service ports.Service, store ports.IdempotencyStore, tx ports.Transactor) *Creator {
	if tx == nil {
		tx = ports.NoopTransactor{}
	}
	return &Creator{service: service, store: store, tx: tx}
}

// Create returns ErrIdempotencyConflict when the key was claimed for another payload and
// ErrReplayedProductDeleted when the product it created has been deleted since.
func (c *Creator) Create(ctx context.Context, cmd ports.CreateProductCommand) (*domain.Product, error) {
	if c == nil || c.service == nil {
		return nil, errors.New("product creator not configured")
	}
	key := strings.TrimSpace(cmd.IdempotencyKey)
	if key == "" || c.store == nil {
		return c.add(ctx, cmd)
	}
	hash, err := FingerprintCreateProduct(cmd)
	if err != nil {
		return nil, err
	}
	var product *domain.Product
	err = c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		claim, err := c.store.Claim(ctx, key, hash)
		if err != nil {
			return err
		}
		if claim.RequestHash != hash {
			return ports.ErrIdempotencyConflict
		}
		if claim.Completed() {
			product, err = c.replay(ctx, claim.ProductID)
			return err
		}
		product, err = c.add(ctx, cmd)
		if err != nil {
			return err
		}
		return c.store.Complete(ctx, key, product.ID)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (c *Creator) replay(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := c.service.RetrieveProduct(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ports.ErrReplayedProductDeleted
	}
	return product, err
}

func (c *Creator) add(ctx context.Context, cmd ports.CreateProductCommand) (*domain.Product, error) {
	product := cmd.Product
	return c.service.AddProduct(ctx, &product, cmd.StockID)
}
