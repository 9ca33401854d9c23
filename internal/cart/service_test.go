package cart

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andresfontal/voltio-backend/internal/catalog"
	"github.com/andresfontal/voltio-backend/pkg/db/models"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.CartItem{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := newTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
	svc, err := NewService(NewRepository(conn), catalog.NewRepository(conn), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func mustCreateProduct(t *testing.T, tx *gorm.DB, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:      fmt.Sprintf("SKU-%s", uuid.NewString()),
		Name:     "Cart Test Product",
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

func TestAddItemIncrementsUpToStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, "100.00", 2)

	cart, err := svc.AddItem(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if cart.ItemCount != 1 {
		t.Fatalf("expected 1 item, got %d", cart.ItemCount)
	}

	cart, err = svc.AddItem(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if cart.ItemCount != 2 {
		t.Fatalf("expected 2 items, got %d", cart.ItemCount)
	}

	// Third add exceeds the 2 units in stock.
	_, err = svc.AddItem(ctx, userID, product.ID)
	if err == nil {
		t.Fatal("expected conflict when adding past stock")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestAddItemFirstAddIgnoresStock(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	soldOut := mustCreateProduct(t, conn, "49.99", 0)

	cart, err := svc.AddItem(ctx, userID, soldOut.ID)
	if err != nil {
		t.Fatalf("first add of sold-out product: %v", err)
	}
	if cart.ItemCount != 1 {
		t.Fatalf("expected sold-out product added at qty 1, got %d", cart.ItemCount)
	}

	// The increment path is still guarded by stock.
	if _, err := svc.AddItem(ctx, userID, soldOut.ID); err == nil {
		t.Fatal("expected conflict incrementing a sold-out line")
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, "10.00", 5)

	if _, err := svc.AddItem(ctx, userID, product.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, userID, product.ID, 0)
	if err != nil {
		t.Fatalf("set quantity 0: %v", err)
	}
	if len(cart.Items) != 0 || cart.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestSetQuantityHasNoUpperClamp(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, "10.00", 2)

	if _, err := svc.AddItem(ctx, userID, product.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, userID, product.ID, 50)
	if err != nil {
		t.Fatalf("set quantity above stock: %v", err)
	}
	if cart.ItemCount != 50 {
		t.Fatalf("expected quantity 50, got %d", cart.ItemCount)
	}
}

func TestSetQuantityRejectsNegative(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	product := mustCreateProduct(t, conn, "10.00", 2)

	if _, err := svc.AddItem(ctx, userID, product.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := svc.SetQuantity(ctx, userID, product.ID, -1)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCartTotals(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	gpu := mustCreateProduct(t, conn, "599.99", 10)
	keyboard := mustCreateProduct(t, conn, "89.50", 10)

	if _, err := svc.AddItem(ctx, userID, gpu.ID); err != nil {
		t.Fatalf("add gpu: %v", err)
	}
	if _, err := svc.SetQuantity(ctx, userID, gpu.ID, 2); err != nil {
		t.Fatalf("set gpu qty: %v", err)
	}
	if _, err := svc.AddItem(ctx, userID, keyboard.ID); err != nil {
		t.Fatalf("add keyboard: %v", err)
	}

	cart, err := svc.GetCart(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}

	want := decimal.RequireFromString("1289.48") // 2*599.99 + 89.50
	if !cart.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, cart.Total)
	}
	if cart.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", cart.ItemCount)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", len(cart.Items))
	}
}

func TestRemoveItemNotInCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}
