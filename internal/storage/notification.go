package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationStorage описывает методы для работы с уведомлениями.
type NotificationStorage interface {
	// CreateNotification добавляет уведомление внутри транзакции.
	CreateNotification(ctx context.Context, tx *sql.Tx, n *models.Notification) error
	// GetNotificationsByUserID возвращает страницу уведомлений и их общее количество.
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Notification, int, error)
	// MarkAsRead отмечает уведомление прочитанным, только если оно адресовано пользователю.
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationStorage {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, tx *sql.Tx, n *models.Notification) error {
	query := `INSERT INTO notifications (user_id, title, message, type, is_read, related_order_id, created_at)
	          VALUES ($1, $2, $3, $4, FALSE, $5, NOW())
	          RETURNING id, created_at`
	err := tx.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message, n.Type, n.RelatedOrderID).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Notification, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE user_id = $1", userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, user_id, title, message, type, is_read, related_order_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		var related uuid.NullUUID
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &related, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		if related.Valid {
			n.RelatedOrderID = &related.UUID
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
