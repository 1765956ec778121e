package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// количества хранятся в NUMERIC(12,3)
const QuantityScale = 3

// MaxQuantity — наибольшее значение, которое помещается в NUMERIC(12,3)
var MaxQuantity = decimal.RequireFromString("999999999.999")

// validateQuantity пропускает только положительные количества, которые база сохранит без округления.
func validateQuantity(quantity decimal.Decimal) error {
	switch {
	case !quantity.IsPositive():
		return fmt.Errorf("quantity must be positive: %w", ErrValidation)
	case !quantity.Equal(quantity.Truncate(QuantityScale)):
		return fmt.Errorf("quantity must have at most %d decimal places: %w", QuantityScale, ErrValidation)
	case quantity.GreaterThan(MaxQuantity):
		return fmt.Errorf("quantity must not exceed %s: %w", MaxQuantity, ErrValidation)
	}
	return nil
}
