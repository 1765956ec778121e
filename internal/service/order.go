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

// OrderService — чтение заказов покупателя.
type OrderService interface {
	GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error)
}

type orderService struct {
	log         *slog.Logger
	orderRepo   storage.OrderStorage
	paymentRepo storage.PaymentStorage
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, paymentRepo storage.PaymentStorage) OrderService {
	return &orderService{
		log:         log,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

// GetOrder возвращает заказ с позициями и оплатой.
// Чужой заказ неотличим от несуществующего: в обоих случаях ErrNotFound.
func (s *orderService) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	const op = "service.OrderService.GetOrder"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("buyerID", buyerID.String()),
		slog.String("orderID", orderID.String()),
	)

	order, err := s.orderRepo.GetBuyerOrder(ctx, buyerID, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return nil, fmt.Errorf("%s: order not found: %w", op, ErrNotFound)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order: %w: %w", op, ErrInternal, err)
	}

	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		logger.Error("failed to get order items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get order items: %w: %w", op, ErrInternal, err)
	}
	order.Items = items

	payment, err := s.paymentRepo.GetPaymentByOrderID(ctx, orderID)
	switch {
	case err == nil:
		order.Payment = payment
	case errors.Is(err, storage.ErrPaymentNotFound):
		// заказ без оплаты отдаём как есть
	default:
		logger.Error("failed to get payment", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get payment: %w: %w", op, ErrInternal, err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error) {
	const op = "service.OrderService.ListOrders"
	s.log.Info("listing orders", slog.String("op", op), slog.String("buyerID", buyerID.String()))

	orders, err := s.orderRepo.GetOrdersByBuyerID(ctx, buyerID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w: %w", op, ErrInternal, err)
	}
	return orders, nil
}
