package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartEntry — позиция корзины покупателя, ключ (buyer_id, product_id)
type CartEntry struct {
	BuyerID   uuid.UUID       `json:"buyer_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CartLine — позиция корзины вместе со снимком товара
type CartLine struct {
	CartEntry
	Product Product `json:"product"`
}

// Amount возвращает стоимость позиции без округления
func (l CartLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Product.PricePerUnit)
}

// CartTotal считает сумму корзины с округлением до копеек
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount())
	}
	return total.Round(2)
}
