package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

var _ ports.Transactor = (*Transactor)(nil)

type txKey struct{}

// txScope collects the undo steps of the writes made inside one unit of work.
type txScope struct {
	owner *Transactor
	undo  []func()
}

// Transactor serializes units of work and reverts the writes of the memory
// adapters in this package when fn fails.
type Transactor struct {
	mu sync.Mutex
}

func NewTransactor() *Transactor {
	return &Transactor{}
}

// WithinTransaction runs fn while holding the transactor lock. Nested calls join the outer scope.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if scope, ok := ctx.Value(txKey{}).(*txScope); ok && scope.owner == t {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	scope := &txScope{owner: t}
	err := fn(context.WithValue(ctx, txKey{}, scope))
	if err != nil {
		for i := len(scope.undo) - 1; i >= 0; i-- {
			scope.undo[i]()
		}
	}
	return err
}

// onRollback registers undo when ctx carries a unit of work; outside one, writes are final.
func onRollback(ctx context.Context, undo func()) {
	if scope, ok := ctx.Value(txKey{}).(*txScope); ok {
		scope.undo = append(scope.undo, undo)
	}
}
