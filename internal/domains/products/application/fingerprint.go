package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

type normalizedCreateProduct struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
	Category string  `json:"category"`
	StockID  int64   `json:"stockId"`
}

// FingerprintCreateProduct hashes the payload of a creation command, excluding the
// idempotency key and any stock already attached to the product.
func FingerprintCreateProduct(cmd ports.CreateProductCommand) (string, error) {
	payload, err := json.Marshal(normalizedCreateProduct{
		ID:       cmd.Product.ID,
		Title:    cmd.Product.Title,
		Price:    cmd.Product.Price,
		Quantity: cmd.Product.Quantity,
		Category: string(cmd.Product.Category),
		StockID:  cmd.StockID,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
