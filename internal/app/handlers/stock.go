package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/service"
	"github.com/shopspring/decimal"
)

type RestockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type RestockResponse struct {
	Success           bool            `json:"success"`
	ProductID         uuid.UUID       `json:"product_id"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

// RestockHandler обрабатывает POST /api/farmer/products/{id}/restock
func RestockHandler(log *slog.Logger, stockService service.StockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RestockHandler"
		logger := log.With(slog.String("op", op))

		var req RestockRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		farmerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}
		productID, ok := uuidParam(w, r, logger, "id")
		if !ok {
			return
		}

		available, err := stockService.Restock(r.Context(), farmerID, productID, req.Quantity)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, RestockResponse{Success: true, ProductID: productID, AvailableQuantity: available})
	}
}
