package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/enums"
)

// SaleRecord is the immutable log entry written when a sale line completes.
// Rows are append-only; nothing updates them after insert.
type SaleRecord struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductSKU  string            `gorm:"column:product_sku;not null"`
	ProductName string            `gorm:"column:product_name;not null"`
	Quantity    int               `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Unit        string            `gorm:"column:unit;not null"`
	Channel     enums.SaleChannel `gorm:"column:channel;not null"`
	ActorUserID uuid.UUID         `gorm:"column:actor_user_id;type:uuid;not null"`
	ActorEmail  string            `gorm:"column:actor_email;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (s *SaleRecord) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
