package domain

import "strings"

// Stock is a storage location products are kept in. It holds no product list;
// products reference it by StockID.
type Stock struct {
	ID   int64
	Name string
}

// NewStock builds a stock. An ID of zero lets the store assign one on save.
func NewStock(id int64, name string) *Stock {
	return &Stock{ID: id, Name: strings.TrimSpace(name)}
}

func (s *Stock) Clone() *Stock {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
