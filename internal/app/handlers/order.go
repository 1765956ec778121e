package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/service"
)

type OrderResponse struct {
	Success bool          `json:"success"`
	Order   *models.Order `json:"order"`
}

type OrdersResponse struct {
	Success bool            `json:"success"`
	Orders  []*models.Order `json:"orders"`
}

// GetOrderHandler обрабатывает GET /api/buyer/orders/{id}
func GetOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		buyerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}
		orderID, ok := uuidParam(w, r, logger, "id")
		if !ok {
			return
		}

		order, err := orderService.GetOrder(r.Context(), buyerID, orderID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, OrderResponse{Success: true, Order: order})
	}
}

// ListOrdersHandler обрабатывает GET /api/buyer/orders
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		buyerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}

		orders, err := orderService.ListOrders(r.Context(), buyerID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		writeJSON(w, logger, http.StatusOK, OrdersResponse{Success: true, Orders: orders})
	}
}
