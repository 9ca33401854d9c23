package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/pagination"
)

// ProductDTO is the public product shape returned by catalog reads.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	SKU         string            `json:"sku"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Subcategory *string           `json:"subcategory,omitempty"`
	Brand       string            `json:"brand"`
	Model       *string           `json:"model,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	InStock     bool              `json:"in_stock"`
	Unit        string            `json:"unit"`
	Rating      float64           `json:"rating"`
	Tags        []string          `json:"tags"`
	Specs       map[string]string `json:"specs,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CategoryDTO is the public category shape.
type CategoryDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Subcategories []string  `json:"subcategories"`
	Position      int       `json:"position"`
}

// ProductPage is one page of search results plus its envelope.
type ProductPage struct {
	Products []ProductDTO    `json:"products"`
	Page     pagination.Page `json:"pagination"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU         string
	Name        string
	Category    string
	Subcategory *string
	Brand       string
	Model       *string
	Price       decimal.Decimal
	Stock       int
	Unit        string
	Rating      float64
	Tags        []string
	Specs       map[string]string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Category    *string
	Subcategory *string
	Brand       *string
	Model       *string
	Price       *decimal.Decimal
	Unit        *string
	Rating      *float64
	Tags        *[]string
	Specs       *map[string]string
}

func ToProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Brand:       p.Brand,
		Model:       p.Model,
		Price:       p.Price,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		Unit:        p.Unit,
		Rating:      p.Rating,
		Tags:        []string(p.Tags),
		Specs:       p.Specs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToProductDTO(row))
	}
	return out
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:            c.ID,
		Name:          c.Name,
		Subcategories: []string(c.Subcategories),
		Position:      c.Position,
	}
}

func stringArray(values []string) pq.StringArray {
	if values == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(values)
}
