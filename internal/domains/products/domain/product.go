package domain

import "strings"

// Product is an item kept in a stock.
type Product struct {
	ID       int64
	Title    string
	Price    float64
	Quantity int32
	Category Category
	// StockID is the owning side of the product to stock relation.
	StockID int64
	// Stock is the resolved reference. It is a read-only view and may be nil
	// on records that were loaded without it.
	Stock *Stock
}

// NewProduct builds a product that is not yet attached to a stock.
func NewProduct(id int64, title string, price float64, quantity int32, category Category) *Product {
	return &Product{
		ID:       id,
		Title:    strings.TrimSpace(title),
		Price:    price,
		Quantity: quantity,
		Category: category,
	}
}

// AttachStock points the product at stock, replacing any previous reference.
func (p *Product) AttachStock(stock *Stock) {
	if stock == nil {
		p.Stock = nil
		p.StockID = 0
		return
	}
	p.Stock = stock.Clone()
	p.StockID = stock.ID
}

// Clone returns a deep copy safe to hand across persistence boundaries.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Stock = p.Stock.Clone()
	return &clone
}
