package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/lib/metrics"
	"github.com/linemk/farm-market/internal/storage"
)

// CheckoutInput — данные для оформления заказа
type CheckoutInput struct {
	BuyerID         uuid.UUID
	DeliveryAddress string
	PaymentMethod   models.PaymentMethod
}

// CheckoutResult — результат успешного оформления
type CheckoutResult struct {
	OrderID       uuid.UUID
	PaymentMethod models.PaymentMethod
	Status        models.OrderStatus
}

// CheckoutService превращает корзину покупателя в заказ.
// Повторный вызов создаёт второй заказ: защита от двойной отправки на стороне клиента.
type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}

type checkoutService struct {
	log              *slog.Logger
	db               *sql.DB
	metrics          *metrics.Metrics
	productRepo      storage.ProductStorage
	cartRepo         storage.CartStorage
	orderRepo        storage.OrderStorage
	paymentRepo      storage.PaymentStorage
	notificationRepo storage.NotificationStorage
	now              func() time.Time
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	m *metrics.Metrics,
	productRepo storage.ProductStorage,
	cartRepo storage.CartStorage,
	orderRepo storage.OrderStorage,
	paymentRepo storage.PaymentStorage,
	notificationRepo storage.NotificationStorage,
) CheckoutService {
	return &checkoutService{
		log:              log,
		db:               db,
		metrics:          m,
		productRepo:      productRepo,
		cartRepo:         cartRepo,
		orderRepo:        orderRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

// Checkout оформляет заказ из всей корзины покупателя в одной транзакции:
// проверка остатков, заказ и позиции, списание остатков, уведомления фермерам,
// оплата и очистка корзины. Любая ошибка откатывает всё.
func (s *checkoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(
		slog.String("op", op),
		slog.String("buyerID", in.BuyerID.String()),
		slog.String("paymentMethod", string(in.PaymentMethod)),
	)

	res, err := s.checkout(ctx, logger, in)
	s.metrics.ObserveCheckout(checkoutOutcome(err))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (s *checkoutService) checkout(ctx context.Context, logger *slog.Logger, in CheckoutInput) (*CheckoutResult, error) {
	// проверки до первой записи
	if strings.TrimSpace(in.DeliveryAddress) == "" || in.PaymentMethod == "" {
		return nil, fmt.Errorf("delivery address and payment method required: %w", ErrValidation)
	}
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	logger.Info("starting checkout transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("failed to begin transaction: %w: %w", ErrInternal, err)
	}

	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
	}

	// Снимок корзины и товаров читаем внутри транзакции
	lines, err := s.cartRepo.GetCartLinesTx(ctx, tx, in.BuyerID)
	if err != nil {
		rollback()
		logger.Error("failed to get cart", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get cart: %w: %w", ErrInternal, err)
	}
	if len(lines) == 0 {
		rollback()
		logger.Warn("cart is empty")
		return nil, ErrEmptyCart
	}

	// Ранняя проверка остатков для понятной ошибки; гарантию даёт условное списание ниже
	for _, l := range lines {
		if l.Quantity.GreaterThan(l.Product.AvailableQuantity) {
			rollback()
			logger.Warn("insufficient stock",
				slog.String("product", l.Product.Name),
				slog.String("requested", l.Quantity.String()),
				slog.String("available", l.Product.AvailableQuantity.String()),
			)
			return nil, &InsufficientStockError{ProductName: l.Product.Name}
		}
	}

	total := models.CartTotal(lines)

	cod := in.PaymentMethod == models.PaymentMethodCashOnDelivery
	order := &models.Order{
		BuyerID:         in.BuyerID,
		TotalAmount:     total,
		DeliveryAddress: in.DeliveryAddress,
		Status:          models.OrderStatusPending,
	}
	if cod {
		order.Status = models.OrderStatusConfirmed
	}

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		rollback()
		logger.Error("failed to create order", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create order: %w: %w", ErrInternal, err)
	}
	logger = logger.With(slog.String("orderID", order.ID.String()))

	// Позиции заказа (снимок цены) и списание остатков
	for _, l := range lines {
		item := &models.OrderItem{
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.PricePerUnit,
		}
		if err := s.orderRepo.CreateOrderItem(ctx, tx, item); err != nil {
			rollback()
			logger.Error("failed to create order item", slog.Any("error", err))
			return nil, fmt.Errorf("failed to create order item: %w: %w", ErrInternal, err)
		}

		if err := s.productRepo.DecreaseStock(ctx, tx, l.ProductID, l.Quantity); err != nil {
			rollback()
			if errors.Is(err, storage.ErrInsufficientStock) {
				logger.Warn("stock decrement rejected", slog.String("product", l.Product.Name))
				return nil, &InsufficientStockError{ProductName: l.Product.Name}
			}
			logger.Error("failed to decrease stock", slog.Any("error", err))
			return nil, fmt.Errorf("failed to decrease stock: %w: %w", ErrInternal, err)
		}
	}

	// Одно уведомление на каждого фермера
	for _, n := range farmerNotifications(order.ID, lines) {
		if err := s.notificationRepo.CreateNotification(ctx, tx, n); err != nil {
			rollback()
			logger.Error("failed to create notification", slog.Any("error", err))
			return nil, fmt.Errorf("failed to create notification: %w: %w", ErrInternal, err)
		}
	}

	payment := &models.Payment{
		OrderID:       order.ID,
		Amount:        total,
		Currency:      models.DefaultCurrency,
		PaymentMethod: in.PaymentMethod,
		Status:        models.PaymentStatusPending,
	}
	if cod {
		paidAt := s.now()
		payment.Status = models.PaymentStatusCompleted
		payment.PaidAt = &paidAt
	}
	if err := s.paymentRepo.CreatePayment(ctx, tx, payment); err != nil {
		rollback()
		logger.Error("failed to create payment", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create payment: %w: %w", ErrInternal, err)
	}

	// Из корзины убираем только заказанные позиции
	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	if err := s.cartRepo.RemoveCartEntries(ctx, tx, in.BuyerID, productIDs); err != nil {
		rollback()
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("failed to clear cart: %w: %w", ErrInternal, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("failed to commit transaction: %w: %w", ErrInternal, err)
	}

	logger.Info("checkout completed successfully",
		slog.String("total", total.StringFixed(2)),
		slog.Int("items", len(lines)),
	)
	return &CheckoutResult{
		OrderID:       order.ID,
		PaymentMethod: in.PaymentMethod,
		Status:        order.Status,
	}, nil
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPaymentMethod):
		return "invalid_request"
	}
	return "error"
}

// farmerNotifications группирует позиции по фермерам в порядке их появления в корзине.
func farmerNotifications(orderID uuid.UUID, lines []models.CartLine) []*models.Notification {
	var farmers []uuid.UUID
	names := make(map[uuid.UUID][]string)
	for _, l := range lines {
		if _, ok := names[l.Product.FarmerID]; !ok {
			farmers = append(farmers, l.Product.FarmerID)
		}
		names[l.Product.FarmerID] = append(names[l.Product.FarmerID], l.Product.Name)
	}

	notifications := make([]*models.Notification, 0, len(farmers))
	for _, farmerID := range farmers {
		relatedOrderID := orderID
		notifications = append(notifications, &models.Notification{
			UserID:         farmerID,
			Title:          "New Order Received",
			Message:        fmt.Sprintf("You have a new order for: %s. Order ID: %s", strings.Join(names[farmerID], ", "), orderID),
			Type:           models.NotificationTypeOrder,
			RelatedOrderID: &relatedOrderID,
		})
	}
	return notifications
}
