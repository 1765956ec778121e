package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/storage"
)

// PaymentService обновляет статус оплаты по сигналу платёжной системы.
type PaymentService interface {
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, transactionID string, status models.PaymentStatus) error
}

type paymentService struct {
	log         *slog.Logger
	db          *sql.DB
	paymentRepo storage.PaymentStorage
	orderRepo   storage.OrderStorage
	now         func() time.Time
}

func NewPaymentService(log *slog.Logger, db *sql.DB, paymentRepo storage.PaymentStorage, orderRepo storage.OrderStorage) PaymentService {
	return &paymentService{
		log:         log,
		db:          db,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

// UpdatePaymentStatus сохраняет статус и внешний идентификатор оплаты.
// paid_at выставляется только для completed, иначе сбрасывается.
// Для completed заказ переводится в confirmed в той же транзакции.
func (s *paymentService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, transactionID string, status models.PaymentStatus) error {
	const op = "service.PaymentService.UpdatePaymentStatus"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("orderID", orderID.String()),
		slog.String("status", string(status)),
	)

	if !status.Valid() {
		return fmt.Errorf("%s: unknown payment status %q: %w", op, status, ErrValidation)
	}

	logger.Info("starting payment update transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to begin transaction: %w: %w", op, ErrInternal, err)
	}

	payment, err := s.paymentRepo.LockPaymentByOrderIDTx(ctx, tx, orderID)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		switch {
		case errors.Is(err, storage.ErrPaymentNotFound):
			logger.Warn("payment not found")
			return fmt.Errorf("%s: payment not found: %w", op, ErrNotFound)
		case errors.Is(err, storage.ErrLocked):
			logger.Warn("payment is locked by another update")
			return fmt.Errorf("%s: payment is being updated: %w", op, ErrConflict)
		}
		logger.Error("failed to get payment", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get payment: %w: %w", op, ErrInternal, err)
	}

	var txID *string
	if transactionID != "" {
		txID = &transactionID
	}
	var paidAt *time.Time
	if status == models.PaymentStatusCompleted {
		now := s.now()
		paidAt = &now
	}

	if err := s.paymentRepo.UpdatePayment(ctx, tx, payment.ID, status, txID, paidAt); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		if errors.Is(err, storage.ErrDuplicateTransactionID) {
			logger.Warn("duplicate transaction id", slog.String("transactionID", transactionID))
			return fmt.Errorf("%s: transaction id already used: %w", op, ErrConflict)
		}
		logger.Error("failed to update payment", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update payment: %w: %w", op, ErrInternal, err)
	}

	if status == models.PaymentStatusCompleted {
		if err := s.orderRepo.UpdateOrderStatus(ctx, tx, orderID, models.OrderStatusConfirmed); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to confirm order", slog.Any("error", err))
			return fmt.Errorf("%s: failed to confirm order: %w: %w", op, ErrInternal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w: %w", op, ErrInternal, err)
	}

	logger.Info("payment updated successfully")
	return nil
}
