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

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
// The stocks table is migrated too since products reference it.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&stockRecord{}, &productRecord{})
	}
	return repo
}

// Save inserts a product when its ID is zero and replaces the stored row otherwise.
// A StockID that references no stock yields ports.ErrStockNotFound.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toProductRecord(product)
	conn := platformpostgres.Conn(ctx, r.db)
	if err := conn.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "price", "quantity", "category", "stock_id", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ports.ErrStockNotFound
		}
		return nil, err
	}
	if product.ID != 0 {
		if err := platformpostgres.AdvanceSequence(conn, productRecord{}.TableName()); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.query(ctx).First(&record, "products.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes a product by identifier. Unknown ids are not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.Conn(ctx, r.db).Delete(&productRecord{}, id).Error
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	return r.find(ctx, nil)
}

func (r *Repository) FindByCategory(ctx context.Context, category domain.Category) ([]*domain.Product, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("category = ?", string(category)) })
}

func (r *Repository) FindByStockID(ctx context.Context, stockID int64) ([]*domain.Product, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("stock_id = ?", stockID) })
}

// query loads products together with their stock.
func (r *Repository) query(ctx context.Context) *gorm.DB {
	return platformpostgres.Conn(ctx, r.db).Preload("Stock")
}

func (r *Repository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.query(ctx)
	if scope != nil {
		query = scope(query)
	}
	var records []productRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}
