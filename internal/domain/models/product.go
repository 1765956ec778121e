package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product — товар фермера
type Product struct {
	ID                uuid.UUID       `json:"id"`
	FarmerID          uuid.UUID       `json:"farmer_id"` // user_id фермера-владельца
	Name              string          `json:"name"`
	PricePerUnit      decimal.Decimal `json:"price_per_unit"`
	Unit              string          `json:"unit"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"` // никогда не бывает отрицательным
	Category          string          `json:"product_category"`
}
