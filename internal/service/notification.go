package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/storage"
)

const (
	DefaultNotificationsLimit = 20
	MaxNotificationsLimit     = 100
)

// NotificationService — уведомления текущего пользователя.
type NotificationService interface {
	ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int) (*NotificationPage, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

// NotificationPage — страница уведомлений
type NotificationPage struct {
	Notifications []*models.Notification
	Total         int
	Page          int
	TotalPages    int
}

type notificationService struct {
	log              *slog.Logger
	notificationRepo storage.NotificationStorage
}

func NewNotificationService(log *slog.Logger, notificationRepo storage.NotificationStorage) NotificationService {
	return &notificationService{log: log, notificationRepo: notificationRepo}
}

// ListNotifications возвращает уведомления, новые первыми.
// Некорректные page и limit заменяются значениями по умолчанию.
func (s *notificationService) ListNotifications(ctx context.Context, userID uuid.UUID, page, limit int) (*NotificationPage, error) {
	const op = "service.NotificationService.ListNotifications"

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultNotificationsLimit
	}
	if limit > MaxNotificationsLimit {
		limit = MaxNotificationsLimit
	}

	notifications, total, err := s.notificationRepo.GetNotificationsByUserID(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		s.log.Error("failed to get notifications", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get notifications: %w: %w", op, ErrInternal, err)
	}

	return &NotificationPage{
		Notifications: notifications,
		Total:         total,
		Page:          page,
		TotalPages:    (total + limit - 1) / limit,
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	const op = "service.NotificationService.MarkAsRead"
	logger := s.log.With(slog.String("op", op), slog.String("notificationID", notificationID.String()))

	if err := s.notificationRepo.MarkAsRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, storage.ErrNotificationNotFound) {
			logger.Warn("notification not found or access denied")
			return fmt.Errorf("%s: notification not found: %w", op, ErrNotFound)
		}
		logger.Error("failed to mark notification as read", slog.Any("error", err))
		return fmt.Errorf("%s: failed to mark notification as read: %w: %w", op, ErrInternal, err)
	}
	return nil
}
