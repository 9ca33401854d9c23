package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/pkg/enums"
)

// The test suites build their fixtures on in-memory sqlite, so every model
// must AutoMigrate there cleanly; Postgres-only column defaults belong in
// the goose migrations, not the struct tags.
func TestModelsAutoMigrateOnSqlite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := conn.AutoMigrate(
		&User{},
		&Product{},
		&Category{},
		&CartItem{},
		&SaleRecord{},
		&Purchase{},
		&OutboxEvent{},
	); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
}

func TestBeforeCreateAssignsIDs(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&User{}, &Product{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}

	user := &User{
		Email:        "models@example.com",
		PasswordHash: "hash",
		FirstName:    "Model",
		LastName:     "Tester",
		Role:         enums.UserRoleCustomer,
		Points:       120,
		IsActive:     true,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("expected user id to be assigned on create")
	}

	product := &Product{
		SKU:      "SKU-MODELS-1",
		Name:     "Bench Meter",
		Category: "components",
		Brand:    "acme",
		Price:    decimal.RequireFromString("49.99"),
		Stock:    3,
		Unit:     "pcs",
	}
	if err := conn.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ID == uuid.Nil {
		t.Fatal("expected product id to be assigned on create")
	}

	var reloaded User
	if err := conn.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Points != int64(120) {
		t.Fatalf("expected points 120, got %d", reloaded.Points)
	}
}
