package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/service"
)

type NotificationsResponse struct {
	Success       bool                   `json:"success"`
	Notifications []*models.Notification `json:"notifications"`
	Total         int                    `json:"total"`
	Page          int                    `json:"page"`
	TotalPages    int                    `json:"totalPages"`
}

// ListNotificationsHandler обрабатывает GET /api/notifications?page=&limit=
func ListNotificationsHandler(log *slog.Logger, notificationService service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListNotificationsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}

		// нечисловые значения сервис заменит значениями по умолчанию
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		res, err := notificationService.ListNotifications(r.Context(), userID, page, limit)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		notifications := res.Notifications
		if notifications == nil {
			notifications = []*models.Notification{}
		}

		writeJSON(w, logger, http.StatusOK, NotificationsResponse{
			Success:       true,
			Notifications: notifications,
			Total:         res.Total,
			Page:          res.Page,
			TotalPages:    res.TotalPages,
		})
	}
}

// MarkNotificationReadHandler обрабатывает PATCH /api/notifications/{id}/read
func MarkNotificationReadHandler(log *slog.Logger, notificationService service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MarkNotificationReadHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}
		notificationID, ok := uuidParam(w, r, logger, "id")
		if !ok {
			return
		}

		if err := notificationService.MarkAsRead(r.Context(), userID, notificationID); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MessageResponse{Success: true, Message: "Notification marked as read"})
	}
}
