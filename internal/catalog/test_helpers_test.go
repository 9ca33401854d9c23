package catalog

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Category{}, &models.OutboxEvent{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:      fmt.Sprintf("SKU-%s", uuid.NewString()),
		Name:     "Test Product",
		Category: "components",
		Brand:    "acme",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Unit:     "pcs",
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
