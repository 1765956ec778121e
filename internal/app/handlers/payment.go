package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/service"
)

// UpdatePaymentRequest — тело вебхука платёжной системы
type UpdatePaymentRequest struct {
	OrderID       string `json:"order_id" validate:"required,uuid"`
	TransactionID string `json:"transaction_id" validate:"max=255"`
	Status        string `json:"status" validate:"required,oneof=pending completed failed refunded"`
}

// UpdatePaymentHandler обрабатывает POST /api/buyer/orders/payment/update.
// Вызывается платёжной системой, защищён секретом вебхука, а не JWT.
func UpdatePaymentHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePaymentHandler"
		logger := log.With(slog.String("op", op))

		var req UpdatePaymentRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		orderID := uuid.MustParse(req.OrderID)
		err := paymentService.UpdatePaymentStatus(r.Context(), orderID, req.TransactionID, models.PaymentStatus(req.Status))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MessageResponse{Success: true, Message: "Payment status updated"})
	}
}
