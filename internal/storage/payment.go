package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
)

var (
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrDuplicateTransactionID = errors.New("transaction id already used")
)

// PaymentStorage описывает методы для работы с оплатами.
type PaymentStorage interface {
	// CreatePayment создаёт запись об оплате заказа внутри транзакции.
	CreatePayment(ctx context.Context, tx *sql.Tx, payment *models.Payment) error
	// GetPaymentByOrderID возвращает оплату заказа.
	GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error)
	// LockPaymentByOrderIDTx читает оплату с блокировкой строки.
	LockPaymentByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID uuid.UUID) (*models.Payment, error)
	// UpdatePayment сохраняет статус, внешний идентификатор и время оплаты.
	UpdatePayment(ctx context.Context, tx *sql.Tx, paymentID uuid.UUID, status models.PaymentStatus, transactionID *string, paidAt *time.Time) error
}

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) PaymentStorage {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, tx *sql.Tx, payment *models.Payment) error {
	if payment.Currency == "" {
		payment.Currency = models.DefaultCurrency
	}
	query := `INSERT INTO payments (order_id, amount, currency, payment_method, status, transaction_id, paid_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	          RETURNING id`
	err := tx.QueryRowContext(ctx, query,
		payment.OrderID, payment.Amount, payment.Currency, payment.PaymentMethod, payment.Status, payment.TransactionID, payment.PaidAt,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

const paymentColumns = `id, order_id, amount, currency, payment_method, status, transaction_id, paid_at`

func scanPayment(row *sql.Row) (*models.Payment, error) {
	p := &models.Payment{}
	var (
		transactionID sql.NullString
		paidAt        sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.PaymentMethod, &p.Status, &transactionID, &paidAt); err != nil {
		return nil, err
	}
	if transactionID.Valid {
		p.TransactionID = &transactionID.String
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	return p, nil
}

func (r *paymentRepository) GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE order_id = $1", orderID)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) LockPaymentByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID uuid.UUID) (*models.Payment, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payments WHERE order_id = $1 FOR UPDATE NOWAIT", orderID)
	p, err := scanPayment(row)
	if err != nil {
		if pqCode(err) == pqLockNotAvailable {
			return nil, fmt.Errorf("%w: %w", ErrLocked, err)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) UpdatePayment(ctx context.Context, tx *sql.Tx, paymentID uuid.UUID, status models.PaymentStatus, transactionID *string, paidAt *time.Time) error {
	query := `UPDATE payments SET status = $1, transaction_id = $2, paid_at = $3, updated_at = NOW() WHERE id = $4`
	res, err := tx.ExecContext(ctx, query, status, transactionID, paidAt, paymentID)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateTransactionID
		}
		return fmt.Errorf("failed to update payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
