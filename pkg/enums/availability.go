package enums

import "fmt"

// StockAvailability filters catalog listings by stock state.
type StockAvailability string

const (
	StockAvailabilityAll        StockAvailability = "all"
	StockAvailabilityInStock    StockAvailability = "in_stock"
	StockAvailabilityOutOfStock StockAvailability = "out_of_stock"
)

var validStockAvailabilities = []StockAvailability{
	StockAvailabilityAll,
	StockAvailabilityInStock,
	StockAvailabilityOutOfStock,
}

// String implements fmt.Stringer.
func (a StockAvailability) String() string {
	return string(a)
}

// IsValid reports whether the value is a known StockAvailability.
func (a StockAvailability) IsValid() bool {
	for _, candidate := range validStockAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseStockAvailability converts raw input into a StockAvailability.
func ParseStockAvailability(value string) (StockAvailability, error) {
	for _, candidate := range validStockAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock availability %q", value)
}
