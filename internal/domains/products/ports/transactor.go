package ports

import "context"

// Transactor runs fn as one unit of work against the product and stock repositories.
// Implementations commit when fn returns nil and roll back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopTransactor calls fn directly. It suits repositories without transactional guarantees.
type NoopTransactor struct{}

func (NoopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
