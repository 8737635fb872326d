package postgres

import (
	"time"

	"github.com/Apurer/go-inventory-service/internal/domains/products/domain"
)

type stockRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (stockRecord) TableName() string { return "stocks" }

// productRecord owns the relation: stock_id references stocks(id) and a stock with
// products cannot be deleted.
type productRecord struct {
	ID        int64        `gorm:"primaryKey;column:id"`
	Title     string       `gorm:"column:title"`
	Price     float64      `gorm:"column:price"`
	Quantity  int32        `gorm:"column:quantity"`
	Category  string       `gorm:"column:category;size:32;index"`
	StockID   int64        `gorm:"column:stock_id;not null;index"`
	Stock     *stockRecord `gorm:"foreignKey:StockID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt time.Time    `gorm:"column:created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

func toStockRecord(stock *domain.Stock) stockRecord {
	return stockRecord{ID: stock.ID, Name: stock.Name}
}

func (r *stockRecord) toDomain() *domain.Stock {
	if r == nil {
		return nil
	}
	return &domain.Stock{ID: r.ID, Name: r.Name}
}

func toProductRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:       product.ID,
		Title:    product.Title,
		Price:    product.Price,
		Quantity: product.Quantity,
		Category: string(product.Category),
		StockID:  product.StockID,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:       r.ID,
		Title:    r.Title,
		Price:    r.Price,
		Quantity: r.Quantity,
		Category: domain.Category(r.Category),
		StockID:  r.StockID,
		Stock:    r.Stock.toDomain(),
	}
}
