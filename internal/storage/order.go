package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderStorage описывает методы для работы с заказами и их позициями.
type OrderStorage interface {
	// CreateOrder вставляет новый заказ в таблицу orders с использованием транзакции.
	// Заполняет ID, CreatedAt и UpdatedAt у переданного заказа.
	CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error
	// CreateOrderItem вставляет позицию заказа со снимком цены.
	CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	// GetBuyerOrder возвращает заказ, только если он принадлежит покупателю.
	GetBuyerOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error)
	// GetOrderItems возвращает позиции заказа, с JOIN для получения имени товара.
	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	// GetOrdersByBuyerID возвращает список заказов покупателя, новые первыми.
	GetOrdersByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error)
	// UpdateOrderStatus меняет статус заказа внутри транзакции.
	UpdateOrderStatus(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status models.OrderStatus) error
}

// orderRepository — конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	query := `INSERT INTO orders (buyer_id, total_amount, delivery_address, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	err := tx.QueryRowContext(ctx, query, order.BuyerID, order.TotalAmount, order.DeliveryAddress, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := tx.QueryRowContext(ctx, query, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *orderRepository) GetBuyerOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT id, buyer_id, total_amount, delivery_address, status, created_at, updated_at
	          FROM orders WHERE id = $1 AND buyer_id = $2`
	row := r.db.QueryRowContext(ctx, query, orderID, buyerID)
	if err := row.Scan(&order.ID, &order.BuyerID, &order.TotalAmount, &order.DeliveryAddress, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) GetOrdersByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error) {
	query := `
		SELECT id, buyer_id, total_amount, delivery_address, status, created_at, updated_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.BuyerID, &order.TotalAmount, &order.DeliveryAddress, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status models.OrderStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2", status, orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
