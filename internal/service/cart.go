package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/storage"
	"github.com/shopspring/decimal"
)

// CartService определяет операции с корзиной покупателя.
type CartService interface {
	AddToCart(ctx context.Context, buyerID, productID uuid.UUID, quantity decimal.Decimal) error
	RemoveFromCart(ctx context.Context, buyerID, productID uuid.UUID) error
	GetCart(ctx context.Context, buyerID uuid.UUID) (*CartView, error)
}

// CartView — содержимое корзины с итоговой суммой
type CartView struct {
	Items []models.CartLine
	Total decimal.Decimal
}

type cartService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
	cartRepo    storage.CartStorage
}

func NewCartService(log *slog.Logger, productRepo storage.ProductStorage, cartRepo storage.CartStorage) CartService {
	return &cartService{
		log:         log,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// AddToCart кладёт товар в корзину. Повторное добавление заменяет количество, а не суммирует его.
// Остаток проверяется, но не списывается: списание происходит только при оформлении заказа.
func (s *cartService) AddToCart(ctx context.Context, buyerID, productID uuid.UUID, quantity decimal.Decimal) error {
	const op = "service.CartService.AddToCart"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("buyerID", buyerID.String()),
		slog.String("productID", productID.String()),
		slog.String("quantity", quantity.String()),
	)

	if err := validateQuantity(quantity); err != nil {
		logger.Warn("invalid quantity", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Warn("product not found")
			return fmt.Errorf("%s: product not found: %w", op, ErrNotFound)
		}
		logger.Error("failed to get product", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get product: %w: %w", op, ErrInternal, err)
	}

	if quantity.GreaterThan(product.AvailableQuantity) {
		logger.Warn("insufficient stock", slog.String("available", product.AvailableQuantity.String()))
		return fmt.Errorf("%s: %w", op, &InsufficientStockError{ProductName: product.Name})
	}

	entry := models.CartEntry{BuyerID: buyerID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.UpsertCartEntry(ctx, entry); err != nil {
		logger.Error("failed to upsert cart entry", slog.Any("error", err))
		return fmt.Errorf("%s: failed to upsert cart entry: %w: %w", op, ErrInternal, err)
	}

	logger.Info("product added to cart")
	return nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, buyerID, productID uuid.UUID) error {
	const op = "service.CartService.RemoveFromCart"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("buyerID", buyerID.String()),
		slog.String("productID", productID.String()),
	)

	if err := s.cartRepo.DeleteCartEntry(ctx, buyerID, productID); err != nil {
		if errors.Is(err, storage.ErrCartEntryNotFound) {
			logger.Warn("cart entry not found")
			return fmt.Errorf("%s: cart item not found: %w", op, ErrNotFound)
		}
		logger.Error("failed to delete cart entry", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete cart entry: %w: %w", op, ErrInternal, err)
	}

	logger.Info("product removed from cart")
	return nil
}

func (s *cartService) GetCart(ctx context.Context, buyerID uuid.UUID) (*CartView, error) {
	const op = "service.CartService.GetCart"

	lines, err := s.cartRepo.GetCartLines(ctx, buyerID)
	if err != nil {
		s.log.Error("failed to get cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w: %w", op, ErrInternal, err)
	}

	return &CartView{Items: lines, Total: models.CartTotal(lines)}, nil
}
