package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the canonical catalog listing.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SKU         string            `gorm:"column:sku;not null;uniqueIndex"`
	Name        string            `gorm:"column:name;not null"`
	Category    string            `gorm:"column:category;not null"`
	Subcategory *string           `gorm:"column:subcategory"`
	Brand       string            `gorm:"column:brand;not null"`
	Model       *string           `gorm:"column:model"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int               `gorm:"column:stock;not null;default:0"`
	Unit        string            `gorm:"column:unit;not null;default:'pcs'"`
	Rating      float64           `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	Tags        pq.StringArray    `gorm:"column:tags;type:text[]"`
	Specs       map[string]string `gorm:"column:specs;type:jsonb;serializer:json"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the dialect has no uuid default (sqlite in tests).
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InStock reports whether the product has sellable inventory.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
