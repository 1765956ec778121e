package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// коды ошибок PostgreSQL, которые разбираем явно
const (
	pqUniqueViolation   = "23505"
	pqCheckViolation    = "23514"
	pqLockNotAvailable  = "55P03"
	pqNumericOutOfRange = "22003"
)

// ErrLocked — строка заблокирована другой транзакцией (FOR UPDATE NOWAIT)
var ErrLocked = errors.New("resource is locked, please try again")

// ErrQuantityOutOfRange — количество не помещается в NUMERIC(12,3)
var ErrQuantityOutOfRange = errors.New("quantity out of range")

// queryer — общее подмножество *sql.DB и *sql.Tx для чтения
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
