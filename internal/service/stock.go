package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/storage"
	"github.com/shopspring/decimal"
)

// StockService — пополнение остатков фермером.
type StockService interface {
	Restock(ctx context.Context, farmerID, productID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error)
}

type stockService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewStockService(log *slog.Logger, productRepo storage.ProductStorage) StockService {
	return &stockService{log: log, productRepo: productRepo}
}

// Restock увеличивает остаток товара фермера и возвращает новый остаток.
func (s *stockService) Restock(ctx context.Context, farmerID, productID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	const op = "service.StockService.Restock"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("farmerID", farmerID.String()),
		slog.String("productID", productID.String()),
	)

	if err := validateQuantity(quantity); err != nil {
		logger.Warn("invalid quantity", slog.Any("error", err))
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	available, err := s.productRepo.IncreaseStock(ctx, productID, farmerID, quantity)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			logger.Warn("product not found for farmer")
			return decimal.Zero, fmt.Errorf("%s: product not found: %w", op, ErrNotFound)
		}
		if errors.Is(err, storage.ErrQuantityOutOfRange) {
			logger.Warn("restock would overflow available quantity")
			return decimal.Zero, fmt.Errorf("%s: resulting quantity exceeds %s: %w", op, MaxQuantity, ErrValidation)
		}
		logger.Error("failed to increase stock", slog.Any("error", err))
		return decimal.Zero, fmt.Errorf("%s: failed to increase stock: %w: %w", op, ErrInternal, err)
	}

	logger.Info("product restocked", slog.String("available", available.String()))
	return available, nil
}
