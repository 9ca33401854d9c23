package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemDTO is one line of the cart joined against the catalog.
type CartItemDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Stock     int             `json:"stock"`
	InStock   bool            `json:"in_stock"`
}

// CartDTO is the full cart snapshot returned to clients.
type CartDTO struct {
	Items     []CartItemDTO   `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}
