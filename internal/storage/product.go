package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductStorage описывает методы для работы с каталогом товаров.
type ProductStorage interface {
	// GetProductByID ищет товар по идентификатору.
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// DecreaseStock атомарно списывает остаток внутри транзакции.
	// Если остатка не хватает, возвращает ErrInsufficientStock.
	DecreaseStock(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity decimal.Decimal) error
	// IncreaseStock пополняет остаток товара, принадлежащего фермеру.
	IncreaseStock(ctx context.Context, productID, farmerID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт новый репозиторий товаров.
func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p := &models.Product{}
	query := `SELECT id, farmer_id, name, price_per_unit, unit, available_quantity, product_category
	          FROM products WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.FarmerID, &p.Name, &p.PricePerUnit, &p.Unit, &p.AvailableQuantity, &p.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// DecreaseStock — вычисление на стороне БД, без read-modify-write.
// Условие available_quantity >= $1 и CHECK в схеме не дают уйти в минус
// при параллельных оформлениях заказа.
func (r *productRepository) DecreaseStock(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity decimal.Decimal) error {
	query := `UPDATE products SET available_quantity = available_quantity - $1, updated_at = NOW()
	          WHERE id = $2 AND available_quantity >= $1`
	res, err := tx.ExecContext(ctx, query, quantity, productID)
	if err != nil {
		if pqCode(err) == pqCheckViolation {
			return ErrInsufficientStock
		}
		return fmt.Errorf("failed to decrease stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) IncreaseStock(ctx context.Context, productID, farmerID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	var available decimal.Decimal
	query := `UPDATE products SET available_quantity = available_quantity + $1, updated_at = NOW()
	          WHERE id = $2 AND farmer_id = $3
	          RETURNING available_quantity`
	err := r.db.QueryRowContext(ctx, query, quantity, productID, farmerID).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrProductNotFound
		}
		if pqCode(err) == pqNumericOutOfRange {
			return decimal.Zero, fmt.Errorf("%w: %w", ErrQuantityOutOfRange, err)
		}
		return decimal.Zero, fmt.Errorf("failed to increase stock: %w", err)
	}
	return available, nil
}
