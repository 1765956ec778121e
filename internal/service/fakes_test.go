package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/domain/models"
	"github.com/linemk/farm-market/internal/storage"
	"github.com/shopspring/decimal"
)

// fakeStore — хранилище в памяти, реализующее все интерфейсы storage.
// Транзакции игнорируются, как и в фейках репозиториев пользователя.
type fakeStore struct {
	mu            sync.Mutex
	products      map[uuid.UUID]*models.Product
	carts         map[uuid.UUID][]models.CartEntry // ключ: buyerID, порядок добавления сохраняется
	orders        map[uuid.UUID]*models.Order
	items         []*models.OrderItem
	payments      map[uuid.UUID]*models.Payment // ключ: orderID
	notifications []*models.Notification
	failOn        map[string]error // имя метода -> ошибка
	afterCartRead func()           // вызывается после чтения корзины в транзакции
}

var (
	_ storage.ProductStorage      = (*fakeStore)(nil)
	_ storage.CartStorage         = (*fakeStore)(nil)
	_ storage.OrderStorage        = (*fakeStore)(nil)
	_ storage.PaymentStorage      = (*fakeStore)(nil)
	_ storage.NotificationStorage = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*models.Product),
		carts:    make(map[uuid.UUID][]models.CartEntry),
		orders:   make(map[uuid.UUID]*models.Order),
		payments: make(map[uuid.UUID]*models.Payment),
		failOn:   make(map[string]error),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fakeStore) addProduct(farmerID uuid.UUID, name, price, available string) *models.Product {
	p := &models.Product{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		Name:              name,
		PricePerUnit:      dec(price),
		Unit:              "kg",
		AvailableQuantity: dec(available),
		Category:          "Others",
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) putCart(buyerID, productID uuid.UUID, qty string) {
	f.carts[buyerID] = append(f.carts[buyerID], models.CartEntry{BuyerID: buyerID, ProductID: productID, Quantity: dec(qty)})
}

func (f *fakeStore) stock(productID uuid.UUID) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[productID].AvailableQuantity
}

func (f *fakeStore) fail(method string) error {
	return f.failOn[method]
}

// ProductStorage

func (f *fakeStore) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetProductByID"); err != nil {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) DecreaseStock(ctx context.Context, tx *sql.Tx, productID uuid.UUID, quantity decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DecreaseStock"); err != nil {
		return err
	}
	p, ok := f.products[productID]
	if !ok || p.AvailableQuantity.LessThan(quantity) {
		return storage.ErrInsufficientStock
	}
	p.AvailableQuantity = p.AvailableQuantity.Sub(quantity)
	return nil
}

func (f *fakeStore) IncreaseStock(ctx context.Context, productID, farmerID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("IncreaseStock"); err != nil {
		return decimal.Zero, err
	}
	p, ok := f.products[productID]
	if !ok || p.FarmerID != farmerID {
		return decimal.Zero, storage.ErrProductNotFound
	}
	p.AvailableQuantity = p.AvailableQuantity.Add(quantity)
	return p.AvailableQuantity, nil
}

// CartStorage

func (f *fakeStore) UpsertCartEntry(ctx context.Context, entry models.CartEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpsertCartEntry"); err != nil {
		return err
	}
	entries := f.carts[entry.BuyerID]
	for i := range entries {
		if entries[i].ProductID == entry.ProductID {
			entries[i].Quantity = entry.Quantity
			return nil
		}
	}
	f.carts[entry.BuyerID] = append(entries, entry)
	return nil
}

func (f *fakeStore) DeleteCartEntry(ctx context.Context, buyerID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.carts[buyerID]
	for i := range entries {
		if entries[i].ProductID == productID {
			f.carts[buyerID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return storage.ErrCartEntryNotFound
}

func (f *fakeStore) cartLines(buyerID uuid.UUID) []models.CartLine {
	var lines []models.CartLine
	for _, e := range f.carts[buyerID] {
		lines = append(lines, models.CartLine{CartEntry: e, Product: *f.products[e.ProductID]})
	}
	return lines
}

func (f *fakeStore) GetCartLines(ctx context.Context, buyerID uuid.UUID) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartLines(buyerID), nil
}

func (f *fakeStore) GetCartLinesTx(ctx context.Context, tx *sql.Tx, buyerID uuid.UUID) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetCartLinesTx"); err != nil {
		return nil, err
	}
	lines := f.cartLines(buyerID)
	if f.afterCartRead != nil {
		f.afterCartRead()
	}
	return lines, nil
}

func (f *fakeStore) RemoveCartEntries(ctx context.Context, tx *sql.Tx, buyerID uuid.UUID, productIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("RemoveCartEntries"); err != nil {
		return err
	}
	ordered := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		ordered[id] = true
	}
	kept := f.carts[buyerID][:0]
	for _, e := range f.carts[buyerID] {
		if !ordered[e.ProductID] {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(f.carts, buyerID)
		return nil
	}
	f.carts[buyerID] = kept
	return nil
}

// OrderStorage

func (f *fakeStore) CreateOrder(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateOrder"); err != nil {
		return err
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) CreateOrderItem(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateOrderItem"); err != nil {
		return err
	}
	item.ID = uuid.New()
	cp := *item
	cp.ProductName = f.products[item.ProductID].Name
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeStore) GetBuyerOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.BuyerID != buyerID {
		return nil, storage.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []models.OrderItem
	for _, it := range f.items {
		if it.OrderID == orderID {
			items = append(items, *it)
		}
	}
	return items, nil
}

func (f *fakeStore) GetOrdersByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetOrdersByBuyerID"); err != nil {
		return nil, err
	}
	var orders []*models.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			cp := *o
			orders = append(orders, &cp)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdateOrderStatus"); err != nil {
		return err
	}
	o, ok := f.orders[orderID]
	if !ok {
		return storage.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

// PaymentStorage

func (f *fakeStore) CreatePayment(ctx context.Context, tx *sql.Tx, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreatePayment"); err != nil {
		return err
	}
	payment.ID = uuid.New()
	cp := *payment
	f.payments[payment.OrderID] = &cp
	return nil
}

func (f *fakeStore) GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[orderID]
	if !ok {
		return nil, storage.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) LockPaymentByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID uuid.UUID) (*models.Payment, error) {
	if err := f.fail("LockPaymentByOrderIDTx"); err != nil {
		return nil, err
	}
	return f.GetPaymentByOrderID(ctx, orderID)
}

func (f *fakeStore) UpdatePayment(ctx context.Context, tx *sql.Tx, paymentID uuid.UUID, status models.PaymentStatus, transactionID *string, paidAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ID != paymentID && transactionID != nil && p.TransactionID != nil && *p.TransactionID == *transactionID {
			return storage.ErrDuplicateTransactionID
		}
	}
	for _, p := range f.payments {
		if p.ID == paymentID {
			p.Status = status
			p.TransactionID = transactionID
			p.PaidAt = paidAt
			return nil
		}
	}
	return storage.ErrPaymentNotFound
}

// NotificationStorage

func (f *fakeStore) CreateNotification(ctx context.Context, tx *sql.Tx, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateNotification"); err != nil {
		return err
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	cp := *n
	f.notifications = append(f.notifications, &cp)
	return nil
}

func (f *fakeStore) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Notification, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var own []*models.Notification
	// новые первыми
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserID == userID {
			own = append(own, f.notifications[i])
		}
	}
	total := len(own)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return own[offset:end], total, nil
}

func (f *fakeStore) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return storage.ErrNotificationNotFound
}

func (f *fakeStore) notificationsFor(userID uuid.UUID) []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			res = append(res, n)
		}
	}
	return res
}
