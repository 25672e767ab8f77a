package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a product is flagged.
const LowStockThreshold = 5

// Product is a sellable catalog item.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Prix         decimal.Decimal `json:"prix"`
	Stock        int             `json:"stock"`
	SKU          string          `json:"sku"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ImageURL     string          `json:"imageUrl"`
	ImagePath    string          `json:"-"` // Object storage key backing ImageURL.
	IsAvailable  bool            `json:"isAvailable"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsLowStock reports whether the stock is at or below LowStockThreshold.
func (p *Product) IsLowStock() bool {
	return p.Stock <= LowStockThreshold
}

// ProductSKU derives the SKU from the first eight hex characters of the product ID.
func ProductSKU(id uuid.UUID) string {
	return "SKU-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
