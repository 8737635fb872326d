package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps creation keys in a map. Claims made inside a Transactor
// scope are released when the scope fails.
type IdempotencyStore struct {
	mu     sync.Mutex
	claims map[string]ports.IdempotencyClaim
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{claims: map[string]ports.IdempotencyClaim{}}
}

func (s *IdempotencyStore) Claim(ctx context.Context, key, requestHash string) (ports.IdempotencyClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if claim, ok := s.claims[key]; ok {
		return claim, nil
	}
	claim := ports.IdempotencyClaim{Key: key, RequestHash: requestHash, ClaimedAt: time.Now().UTC()}
	s.claims[key] = claim
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.claims, key)
	})
	return claim, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	claim, ok := s.claims[key]
	if !ok {
		return fmt.Errorf("idempotency key %q is not claimed", key)
	}
	previous := claim
	claim.ProductID = productID
	s.claims[key] = claim
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.claims[key] = previous
	})
	return nil
}
