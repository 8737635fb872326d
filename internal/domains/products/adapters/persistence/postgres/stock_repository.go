package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	platformpostgres "github.com/Apurer/go-inventory-service/internal/platform/postgres"
)

var _ ports.StockRepository = (*StockRepository)(nil)

// StockRepository persists stocks in PostgreSQL using GORM.
type StockRepository struct {
	db *gorm.DB
}

// NewStockRepository wires a PostgreSQL-backed stock repository. Caller manages DB lifecycle.
func NewStockRepository(db *gorm.DB) *StockRepository {
	repo := &StockRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&stockRecord{})
	}
	return repo
}

func (r *StockRepository) Save(ctx context.Context, stock *domain.Stock) (*domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, errors.New("stock is nil")
	}
	record := toStockRecord(stock)
	conn := platformpostgres.Conn(ctx, r.db)
	if err := conn.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	if stock.ID != 0 {
		if err := platformpostgres.AdvanceSequence(conn, stockRecord{}.TableName()); err != nil {
			return nil, err
		}
	}
	return record.toDomain(), nil
}

// GetByID resolves a stock. Inside a transaction the row is locked FOR SHARE so it
// cannot be deleted before the transaction ends.
func (r *StockRepository) GetByID(ctx context.Context, id int64) (*domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := platformpostgres.Conn(ctx, r.db)
	if platformpostgres.InTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "SHARE"})
	}
	var record stockRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrStockNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *StockRepository) List(ctx context.Context) ([]*domain.Stock, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []stockRecord
	if err := platformpostgres.Conn(ctx, r.db).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	stocks := make([]*domain.Stock, 0, len(records))
	for i := range records {
		stocks = append(stocks, records[i].toDomain())
	}
	return stocks, nil
}

func (r *StockRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres stock repository not configured")
	}
	return nil
}
