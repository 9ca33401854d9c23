package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
)

func TestDecrementStockGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "100.00", 5)

	affected, err := repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", reloaded.Stock)
	}

	// Asking for more than remains must not touch the row.
	affected, err = repo.DecrementStock(ctx, product.ID, 3)
	if err != nil {
		t.Fatalf("guarded decrement: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected guard to reject, got %d rows affected", affected)
	}

	reloaded, err = repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload after guard: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("stock changed despite guard: %d", reloaded.Stock)
	}
}

func TestSetStockOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateProduct(t, db, "10.00", 2)

	affected, err := repo.SetStock(ctx, product.ID, 12)
	if err != nil {
		t.Fatalf("set stock: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	reloaded, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", reloaded.Stock)
	}

	affected, err = repo.SetStock(ctx, uuid.New(), 3)
	if err != nil {
		t.Fatalf("set stock unknown: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected no rows for unknown product, got %d", affected)
	}
}

func TestListLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "10.00", 0)
	mustCreateProduct(t, db, "10.00", 3)
	mustCreateProduct(t, db, "10.00", 50)

	rows, err := repo.ListLowStock(ctx, 5)
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 low stock rows, got %d", len(rows))
	}
	if rows[0].Stock > rows[1].Stock {
		t.Fatalf("expected lowest stock first, got %d then %d", rows[0].Stock, rows[1].Stock)
	}
}

func TestListCategoriesOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, c := range []models.Category{
		{Name: "peripherals", Position: 2},
		{Name: "components", Position: 1},
		{Name: "displays", Position: 1},
	} {
		category := c
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	rows, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(rows))
	}
	want := []string{"components", "displays", "peripherals"}
	for i, name := range want {
		if rows[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, rows[i].Name)
		}
	}
}
