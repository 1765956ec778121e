package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "order"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeSystem  NotificationType = "system"
)

// Notification — сообщение для пользователя, только добавляется
type Notification struct {
	ID             uuid.UUID        `json:"id"`
	UserID         uuid.UUID        `json:"user_id"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	Type           NotificationType `json:"type"`
	IsRead         bool             `json:"is_read"`
	RelatedOrderID *uuid.UUID       `json:"related_order_id,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
