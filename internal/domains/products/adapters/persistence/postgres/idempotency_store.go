package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	platformpostgres "github.com/Apurer/go-inventory-service/internal/platform/postgres"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps creation keys in product_idempotency_keys. Inside a
// transaction the claimed row stays locked until commit.
type IdempotencyStore struct {
	db *gorm.DB
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	if db != nil {
		_ = db.AutoMigrate(&keyClaim{})
	}
	return &IdempotencyStore{db: db}
}

// Claim inserts the key unless it exists, then reads the row back FOR UPDATE. A
// concurrent claim blocks on the insert until the holding transaction ends.
func (s *IdempotencyStore) Claim(ctx context.Context, key, requestHash string) (ports.IdempotencyClaim, error) {
	if err := s.ensureDB(); err != nil {
		return ports.IdempotencyClaim{}, err
	}
	row := keyClaim{Key: key, RequestHash: requestHash}
	if err := platformpostgres.Conn(ctx, s.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return ports.IdempotencyClaim{}, err
	}
	query := platformpostgres.Conn(ctx, s.db)
	if platformpostgres.InTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var stored keyClaim
	if err := query.First(&stored, "key = ?", key).Error; err != nil {
		return ports.IdempotencyClaim{}, err
	}
	return stored.toPort(), nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, productID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := platformpostgres.Conn(ctx, s.db).
		Model(&keyClaim{}).
		Where("key = ?", key).
		Update("product_id", productID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("idempotency key %q is not claimed", key)
	}
	return nil
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

type keyClaim struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128;not null"`
	ProductID   int64     `gorm:"column:product_id;not null;default:0"`
	ClaimedAt   time.Time `gorm:"column:claimed_at;autoCreateTime"`
}

func (keyClaim) TableName() string { return "product_idempotency_keys" }

func (c keyClaim) toPort() ports.IdempotencyClaim {
	return ports.IdempotencyClaim{
		Key:         c.Key,
		RequestHash: c.RequestHash,
		ProductID:   c.ProductID,
		ClaimedAt:   c.ClaimedAt,
	}
}
