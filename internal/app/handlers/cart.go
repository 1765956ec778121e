package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/service"
	"github.com/shopspring/decimal"
)

// AddToCartRequest — тело POST /cart
type AddToCartRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CartItemResponse — позиция корзины в ответе
type CartItemResponse struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
}

type CartResponse struct {
	Success bool               `json:"success"`
	Items   []CartItemResponse `json:"items"`
	Total   string             `json:"total"`
}

// AddToCartHandler обрабатывает POST /api/buyer/orders/cart
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		var req AddToCartRequest
		if err := decodeAndValidate(r, &req); err != nil {
			logger.Warn("invalid request", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		buyerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}

		// формат уже проверен валидатором
		productID := uuid.MustParse(req.ProductID)
		if err := cartService.AddToCart(r.Context(), buyerID, productID, req.Quantity); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MessageResponse{Success: true, Message: "Product added to cart"})
	}
}

// GetCartHandler обрабатывает GET /api/buyer/orders/cart
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		buyerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}

		cart, err := cartService.GetCart(r.Context(), buyerID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		items := make([]CartItemResponse, 0, len(cart.Items))
		for _, l := range cart.Items {
			items = append(items, CartItemResponse{
				ProductID:    l.ProductID,
				Name:         l.Product.Name,
				Unit:         l.Product.Unit,
				PricePerUnit: l.Product.PricePerUnit,
				Quantity:     l.Quantity,
				Amount:       l.Amount(),
			})
		}
		writeJSON(w, logger, http.StatusOK, CartResponse{Success: true, Items: items, Total: cart.Total.StringFixed(2)})
	}
}

// RemoveFromCartHandler обрабатывает DELETE /api/buyer/orders/cart/{product_id}
func RemoveFromCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveFromCartHandler"
		logger := log.With(slog.String("op", op))

		buyerID, ok := currentUser(w, r, logger)
		if !ok {
			return
		}
		productID, ok := uuidParam(w, r, logger, "product_id")
		if !ok {
			return
		}

		if err := cartService.RemoveFromCart(r.Context(), buyerID, productID); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, MessageResponse{Success: true, Message: "Product removed from cart"})
	}
}
