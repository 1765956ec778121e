package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/linemk/farm-market/internal/domain/models"
)

var ErrCartEntryNotFound = errors.New("cart entry not found")

// CartStorage описывает методы для работы с корзиной покупателя.
type CartStorage interface {
	// UpsertCartEntry добавляет позицию или заменяет количество у существующей.
	UpsertCartEntry(ctx context.Context, entry models.CartEntry) error
	// DeleteCartEntry удаляет позицию, ErrCartEntryNotFound если её нет.
	DeleteCartEntry(ctx context.Context, buyerID, productID uuid.UUID) error
	// GetCartLines возвращает корзину вместе с данными товаров.
	GetCartLines(ctx context.Context, buyerID uuid.UUID) ([]models.CartLine, error)
	// GetCartLinesTx то же самое, но строки корзины блокируются до конца транзакции.
	GetCartLinesTx(ctx context.Context, tx *sql.Tx, buyerID uuid.UUID) ([]models.CartLine, error)
	// RemoveCartEntries удаляет из корзины только перечисленные товары внутри транзакции.
	RemoveCartEntries(ctx context.Context, tx *sql.Tx, buyerID uuid.UUID, productIDs []uuid.UUID) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository создаёт новый репозиторий корзины.
func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) UpsertCartEntry(ctx context.Context, entry models.CartEntry) error {
	query := `INSERT INTO carts (buyer_id, product_id, quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW())
	          ON CONFLICT (buyer_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, entry.BuyerID, entry.ProductID, entry.Quantity); err != nil {
		return fmt.Errorf("failed to upsert cart entry: %w", err)
	}
	return nil
}

func (r *cartRepository) DeleteCartEntry(ctx context.Context, buyerID, productID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM carts WHERE buyer_id = $1 AND product_id = $2", buyerID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartEntryNotFound
	}
	return nil
}

func (r *cartRepository) GetCartLines(ctx context.Context, buyerID uuid.UUID) ([]models.CartLine, error) {
	return getCartLines(ctx, r.db, cartLinesQuery, buyerID)
}

func (r *cartRepository) GetCartLinesTx(ctx context.Context, tx *sql.Tx, buyerID uuid.UUID) ([]models.CartLine, error) {
	// позиции, добавленные параллельно после чтения, в заказ не попадут и останутся в корзине
	return getCartLines(ctx, tx, cartLinesQuery+" FOR UPDATE OF c", buyerID)
}

const cartLinesQuery = `
		SELECT c.buyer_id, c.product_id, c.quantity,
		       p.id, p.farmer_id, p.name, p.price_per_unit, p.unit, p.available_quantity, p.product_category
		FROM carts c
		JOIN products p ON c.product_id = p.id
		WHERE c.buyer_id = $1
		ORDER BY c.created_at`

func getCartLines(ctx context.Context, q queryer, query string, buyerID uuid.UUID) ([]models.CartLine, error) {
	rows, err := q.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var l models.CartLine
		if err := rows.Scan(
			&l.BuyerID, &l.ProductID, &l.Quantity,
			&l.Product.ID, &l.Product.FarmerID, &l.Product.Name, &l.Product.PricePerUnit,
			&l.Product.Unit, &l.Product.AvailableQuantity, &l.Product.Category,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) RemoveCartEntries(ctx context.Context, tx *sql.Tx, buyerID uuid.UUID, productIDs []uuid.UUID) error {
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, id.String())
	}
	query := "DELETE FROM carts WHERE buyer_id = $1 AND product_id = ANY($2::uuid[])"
	if _, err := tx.ExecContext(ctx, query, buyerID, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to remove cart entries: %w", err)
	}
	return nil
}
