package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodBKash          PaymentMethod = "bKash"
	PaymentMethodNagad          PaymentMethod = "Nagad"
	PaymentMethodBankTransfer   PaymentMethod = "BankTransfer"
	PaymentMethodCard           PaymentMethod = "Card"
	PaymentMethodCashOnDelivery PaymentMethod = "CashOnDelivery"
)

// Valid сообщает, входит ли способ оплаты в список поддерживаемых
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBKash, PaymentMethodNagad, PaymentMethodBankTransfer,
		PaymentMethodCard, PaymentMethodCashOnDelivery:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

const DefaultCurrency = "BDT"

// Payment — оплата заказа, 1:1 с Order
type Payment struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        PaymentStatus   `json:"status"`
	TransactionID *string         `json:"transaction_id,omitempty"` // внешний идентификатор платёжной системы
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}
