package catalog

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	"github.com/andresfontal/voltio-backend/pkg/pagination"
)

func testProduct(sku, name, category, brand string, price string, stock int) models.Product {
	return models.Product{
		SKU:      sku,
		Name:     name,
		Category: category,
		Brand:    brand,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
}

func strPtr(v string) *string { return &v }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestSearchMatchesNameAndSKU(t *testing.T) {
	products := []models.Product{
		testProduct("RTX-4070", "GeForce RTX 4070", "components", "nvidia", "599.99", 4),
		testProduct("KB-0042", "Mechanical Keyboard", "peripherals", "keychron", "89.00", 10),
		testProduct("MON-271", "27in Gaming Monitor", "displays", "lg", "329.50", 0),
	}

	t.Run("empty term matches everything", func(t *testing.T) {
		result := Search(products, Query{})
		if len(result.Items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(result.Items))
		}
	})

	t.Run("matches name case-insensitively", func(t *testing.T) {
		result := Search(products, Query{Search: "geforce"})
		if len(result.Items) != 1 || result.Items[0].SKU != "RTX-4070" {
			t.Fatalf("expected RTX-4070, got %+v", result.Items)
		}
	})

	t.Run("matches sku substring", func(t *testing.T) {
		result := Search(products, Query{Search: "kb-00"})
		if len(result.Items) != 1 || result.Items[0].SKU != "KB-0042" {
			t.Fatalf("expected KB-0042, got %+v", result.Items)
		}
	})

	t.Run("no match yields empty page", func(t *testing.T) {
		result := Search(products, Query{Search: "nonexistent"})
		if len(result.Items) != 0 {
			t.Fatalf("expected no items, got %d", len(result.Items))
		}
		if result.Page.TotalPages != 1 {
			t.Fatalf("zero matches should still report 1 page, got %d", result.Page.TotalPages)
		}
		if result.Page.TotalItems != 0 {
			t.Fatalf("expected 0 total items, got %d", result.Page.TotalItems)
		}
	})
}

func TestSearchFiltersAreConjunctive(t *testing.T) {
	products := []models.Product{
		testProduct("A-1", "Widget A", "components", "acme", "10.00", 5),
		testProduct("A-2", "Widget B", "components", "globex", "20.00", 5),
		testProduct("A-3", "Widget C", "peripherals", "acme", "30.00", 5),
	}

	result := Search(products, Query{
		Category: strPtr("components"),
		Brand:    strPtr("acme"),
	})
	if len(result.Items) != 1 || result.Items[0].SKU != "A-1" {
		t.Fatalf("expected only A-1 to satisfy both filters, got %+v", result.Items)
	}
}

func TestSearchPriceRangeInclusive(t *testing.T) {
	products := []models.Product{
		testProduct("P-1", "Cheap", "misc", "acme", "9.99", 1),
		testProduct("P-2", "Lower bound", "misc", "acme", "10.00", 1),
		testProduct("P-3", "Mid", "misc", "acme", "25.00", 1),
		testProduct("P-4", "Upper bound", "misc", "acme", "50.00", 1),
		testProduct("P-5", "Expensive", "misc", "acme", "50.01", 1),
	}

	result := Search(products, Query{
		PriceMin: decPtr("10.00"),
		PriceMax: decPtr("50.00"),
	})

	if len(result.Items) != 3 {
		t.Fatalf("expected 3 items within range, got %d", len(result.Items))
	}
	for _, item := range result.Items {
		if item.SKU == "P-1" || item.SKU == "P-5" {
			t.Fatalf("item %s outside inclusive bounds was returned", item.SKU)
		}
	}
}

func TestSearchAvailabilityFilter(t *testing.T) {
	products := []models.Product{
		testProduct("S-1", "In stock", "misc", "acme", "5.00", 3),
		testProduct("S-2", "Sold out", "misc", "acme", "5.00", 0),
	}

	result := Search(products, Query{Availability: enums.StockAvailabilityInStock})
	if len(result.Items) != 1 || result.Items[0].SKU != "S-1" {
		t.Fatalf("in_stock filter failed: %+v", result.Items)
	}

	result = Search(products, Query{Availability: enums.StockAvailabilityOutOfStock})
	if len(result.Items) != 1 || result.Items[0].SKU != "S-2" {
		t.Fatalf("out_of_stock filter failed: %+v", result.Items)
	}

	result = Search(products, Query{Availability: enums.StockAvailabilityAll})
	if len(result.Items) != 2 {
		t.Fatalf("all filter should return both, got %d", len(result.Items))
	}
}

func TestSearchPartitionIsStable(t *testing.T) {
	products := []models.Product{
		testProduct("Z-1", "First sold out", "misc", "acme", "1.00", 0),
		testProduct("Z-2", "First in stock", "misc", "acme", "1.00", 2),
		testProduct("Z-3", "Second sold out", "misc", "acme", "1.00", 0),
		testProduct("Z-4", "Second in stock", "misc", "acme", "1.00", 7),
	}

	result := Search(products, Query{})
	got := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		got = append(got, item.SKU)
	}

	want := []string{"Z-2", "Z-4", "Z-1", "Z-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestSearchPagination(t *testing.T) {
	products := make([]models.Product, 0, 120)
	for i := 0; i < 120; i++ {
		products = append(products, testProduct(
			fmt.Sprintf("PG-%03d", i),
			fmt.Sprintf("Paged Product %03d", i),
			"misc", "acme", "1.00", 1,
		))
	}

	first := Search(products, Query{Page: 0})
	if len(first.Items) != pagination.PageSize {
		t.Fatalf("expected full first page, got %d", len(first.Items))
	}
	if first.Page.TotalPages != 3 {
		t.Fatalf("expected 3 pages for 120 items, got %d", first.Page.TotalPages)
	}
	if first.Page.Index != 0 {
		t.Fatalf("pages are zero-indexed, got index %d", first.Page.Index)
	}

	last := Search(products, Query{Page: 2})
	if len(last.Items) != 20 {
		t.Fatalf("expected 20 items on last page, got %d", len(last.Items))
	}

	past := Search(products, Query{Page: 9})
	if len(past.Items) != 0 {
		t.Fatalf("page past the end should be empty, got %d items", len(past.Items))
	}

	// Concatenating every page reproduces the full ordered result set.
	var concat []string
	for page := 0; page < first.Page.TotalPages; page++ {
		result := Search(products, Query{Page: page})
		for _, item := range result.Items {
			concat = append(concat, item.SKU)
		}
	}
	if len(concat) != 120 {
		t.Fatalf("concatenated pages yielded %d items, want 120", len(concat))
	}
	for i, sku := range concat {
		want := fmt.Sprintf("PG-%03d", i)
		if sku != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, sku)
		}
	}
}
