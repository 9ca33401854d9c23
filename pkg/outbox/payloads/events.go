package payloads

import (
	"time"

	"github.com/andresfontal/voltio-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCompletedEvent is emitted once per sale line when a checkout commits.
type SaleCompletedEvent struct {
	SaleRecordID  uuid.UUID         `json:"sale_record_id"`
	ProductID     uuid.UUID         `json:"product_id"`
	ProductSKU    string            `json:"product_sku"`
	ProductName   string            `json:"product_name"`
	Quantity      int               `json:"quantity"`
	UnitPrice     decimal.Decimal   `json:"unit_price"`
	Total         decimal.Decimal   `json:"total"`
	Channel       enums.SaleChannel `json:"channel"`
	PointsAwarded int64             `json:"points_awarded"`
	SoldAt        time.Time         `json:"sold_at"`
}

// StockAdjustedEvent reports a manual stock correction outside the sale flow.
type StockAdjustedEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	ProductSKU string    `json:"product_sku"`
	Delta      int       `json:"delta"`
	NewStock   int       `json:"new_stock"`
	AdjustedAt time.Time `json:"adjusted_at"`
}
