package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
)

// ActorContext identifies the authenticated user completing a sale.
type ActorContext struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// SaleLineInput is one ad-hoc (product, quantity) line of a staff sale.
type SaleLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// SaleRecordDTO is the transport shape of one append-only sale entry.
type SaleRecordDTO struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   uuid.UUID         `json:"product_id"`
	ProductSKU  string            `json:"product_sku"`
	ProductName string            `json:"product_name"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Total       decimal.Decimal   `json:"total"`
	Unit        string            `json:"unit"`
	Channel     enums.SaleChannel `json:"channel"`
	ActorEmail  string            `json:"actor_email"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SaleResultDTO summarizes a completed checkout.
type SaleResultDTO struct {
	Total        decimal.Decimal `json:"total"`
	PointsEarned int64           `json:"points_earned"`
	RecordIDs    []uuid.UUID     `json:"record_ids"`
	Records      []SaleRecordDTO `json:"records"`
}

// Summary aggregates sale records for dashboard reads.
type Summary struct {
	SaleCount int64           `json:"sale_count"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

func ToRecordDTO(record models.SaleRecord) SaleRecordDTO {
	return SaleRecordDTO{
		ID:          record.ID,
		ProductID:   record.ProductID,
		ProductSKU:  record.ProductSKU,
		ProductName: record.ProductName,
		Quantity:    record.Quantity,
		UnitPrice:   record.UnitPrice,
		Total:       record.Total,
		Unit:        record.Unit,
		Channel:     record.Channel,
		ActorEmail:  record.ActorEmail,
		CreatedAt:   record.CreatedAt,
	}
}

func ToRecordDTOs(rows []models.SaleRecord) []SaleRecordDTO {
	out := make([]SaleRecordDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToRecordDTO(row))
	}
	return out
}
