package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies a product. The set is closed.
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
	CategoryBooks       Category = "BOOKS"
)

// ErrUnknownCategory is returned when a value outside the closed set is parsed.
var ErrUnknownCategory = errors.New("unknown product category")

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{CategoryElectronics, CategoryClothing, CategoryBooks}
}

// ParseCategory accepts the category name in any letter case.
func ParseCategory(raw string) (Category, error) {
	candidate := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
}

func (c Category) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryClothing, CategoryBooks:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }
