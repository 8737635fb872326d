package ports

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different payload.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrReplayedProductDeleted indicates the key replays a creation whose product was deleted since.
	ErrReplayedProductDeleted = errors.New("product created under idempotency key was deleted")
)

// IdempotencyClaim is the state of a creation key. ProductID stays zero until the
// creation that claimed the key completes.
type IdempotencyClaim struct {
	Key         string
	RequestHash string
	ProductID   int64
	ClaimedAt   time.Time
}

// Completed reports whether a product was created under the key.
func (c IdempotencyClaim) Completed() bool { return c.ProductID != 0 }

// IdempotencyStore reserves creation keys. Both calls belong in the unit of work that
// creates the product, so a failed creation releases its claim and a concurrent claim
// of the same key waits for the first one to finish.
type IdempotencyStore interface {
	// Claim reserves key for requestHash and returns the claim held for the key,
	// which is an earlier one, possibly for another hash, when the key was known.
	Claim(ctx context.Context, key, requestHash string) (IdempotencyClaim, error)
	// Complete binds a claimed key to the product created under it.
	Complete(ctx context.Context, key string, productID int64) error
}
