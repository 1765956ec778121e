package service

import (
	"errors"
	"fmt"
)

// Ошибки бизнес-логики. Транспортный слой сопоставляет их со статусами HTTP через errors.Is.
var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conflict")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInternal             = errors.New("internal error")
)

// InsufficientStockError указывает товар, которого не хватает на складе
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.ProductName)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
