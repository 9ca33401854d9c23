package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	"github.com/andresfontal/voltio-backend/pkg/pagination"
)

// Query captures the browse inputs: a free-text term, conjunctive
// filters, and the requested page.
type Query struct {
	Search       string
	Category     *string
	Brand        *string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Availability enums.StockAvailability
	Page         int
}

// SearchResult is one page of matches plus the page envelope describing
// the filtered set as a whole.
type SearchResult struct {
	Items []models.Product
	Page  pagination.Page
}

// Search narrows the catalog snapshot down to the query's matches,
// orders in-stock products ahead of sold-out ones without disturbing
// their relative order, and slices out the requested page.
func Search(products []models.Product, query Query) SearchResult {
	matched := make([]models.Product, 0, len(products))
	for _, product := range products {
		if matches(product, query) {
			matched = append(matched, product)
		}
	}

	ordered := partitionInStockFirst(matched)
	start, end := pagination.Bounds(query.Page, len(ordered))

	return SearchResult{
		Items: ordered[start:end],
		Page:  pagination.Describe(query.Page, len(ordered)),
	}
}

func matches(product models.Product, query Query) bool {
	if term := strings.TrimSpace(query.Search); term != "" {
		lowered := strings.ToLower(term)
		name := strings.ToLower(product.Name)
		sku := strings.ToLower(product.SKU)
		if !strings.Contains(name, lowered) && !strings.Contains(sku, lowered) {
			return false
		}
	}

	if query.Category != nil && product.Category != *query.Category {
		return false
	}
	if query.Brand != nil && product.Brand != *query.Brand {
		return false
	}
	if query.PriceMin != nil && product.Price.LessThan(*query.PriceMin) {
		return false
	}
	if query.PriceMax != nil && product.Price.GreaterThan(*query.PriceMax) {
		return false
	}

	switch query.Availability {
	case enums.StockAvailabilityInStock:
		if !product.InStock() {
			return false
		}
	case enums.StockAvailabilityOutOfStock:
		if product.InStock() {
			return false
		}
	}

	return true
}

// partitionInStockFirst is a stable partition: in-stock products keep
// their relative order ahead of the sold-out tail.
func partitionInStockFirst(products []models.Product) []models.Product {
	inStock := make([]models.Product, 0, len(products))
	soldOut := make([]models.Product, 0)
	for _, product := range products {
		if product.InStock() {
			inStock = append(inStock, product)
		} else {
			soldOut = append(soldOut, product)
		}
	}
	return append(inStock, soldOut...)
}
