package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-inventory-service/internal/domains/operators/domain"
	"github.com/Apurer/go-inventory-service/internal/domains/operators/ports"
	platformpostgres "github.com/Apurer/go-inventory-service/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists operators in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&operatorRecord{})
	}
	return repo
}

type operatorRecord struct {
	ID         int64         `gorm:"primaryKey;column:id"`
	FirstName  string        `gorm:"column:first_name"`
	LastName   string        `gorm:"column:last_name"`
	Password   string        `gorm:"column:password"`
	InvoiceIDs pq.Int64Array `gorm:"column:invoice_ids;type:bigint[]"`
	CreatedAt  time.Time     `gorm:"column:created_at"`
	UpdatedAt  time.Time     `gorm:"column:updated_at"`
}

func (operatorRecord) TableName() string { return "operators" }

// Save inserts an operator when its ID is zero and replaces the stored row otherwise.
func (r *Repository) Save(ctx context.Context, operator *domain.Operator) (*domain.Operator, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, errors.New("operator is nil")
	}
	record := toRecord(operator)
	conn := platformpostgres.Conn(ctx, r.db)
	if err := conn.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "password", "invoice_ids", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	if operator.ID != 0 {
		if err := platformpostgres.AdvanceSequence(conn, operatorRecord{}.TableName()); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an operator by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Operator, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record operatorRecord
	if err := platformpostgres.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes an operator by identifier. Unknown ids are not an error.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return platformpostgres.Conn(ctx, r.db).Delete(&operatorRecord{}, id).Error
}

// List returns all operators ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Operator, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []operatorRecord
	if err := platformpostgres.Conn(ctx, r.db).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	operators := make([]*domain.Operator, 0, len(records))
	for i := range records {
		operators = append(operators, records[i].toDomain())
	}
	return operators, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres operator repository not configured")
	}
	return nil
}

func toRecord(operator *domain.Operator) operatorRecord {
	return operatorRecord{
		ID:         operator.ID,
		FirstName:  operator.FirstName,
		LastName:   operator.LastName,
		Password:   operator.Password,
		InvoiceIDs: pq.Int64Array(append([]int64{}, operator.InvoiceIDs...)),
	}
}

func (r operatorRecord) toDomain() *domain.Operator {
	var invoiceIDs []int64
	if len(r.InvoiceIDs) > 0 {
		invoiceIDs = append(invoiceIDs, r.InvoiceIDs...)
	}
	return &domain.Operator{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Password:   r.Password,
		InvoiceIDs: invoiceIDs,
	}
}
