package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/service"
)

// ConfirmOrderRequest — тело POST /confirm/{id}
type ConfirmOrderRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
}

type ConfirmOrderResponse struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message"`
	OrderID       uuid.UUID            `json:"order_id"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Status        models.OrderStatus   `json:"status"`
}

// ConfirmOrderHandler обрабатывает POST /api/buyer/orders/confirm/{id}.
// Заказ собирается из всей корзины, {id} в пути не используется.
func ConfirmOrderHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ConfirmOrderHandler"
		logger := log.With(slog.String("op", op))

		var req ConfirmOrderRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "Delivery address and payment method are required")
			return
		}

		buyerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}

		res, err := checkoutService.Checkout(r.Context(), service.CheckoutInput{
			BuyerID:         buyerID,
			DeliveryAddress: req.DeliveryAddress,
			PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, ConfirmOrderResponse{
			Success:       true,
			Message:       "Order placed successfully",
			OrderID:       res.OrderID,
			PaymentMethod: res.PaymentMethod,
			Status:        res.Status,
		})
	}
}
