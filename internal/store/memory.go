package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

// Memory is an in-memory Store for tests and ephemeral runs. It keeps
// deep copies on the way in and out, so callers can never mutate
// stored state through a retained pointer.
type Memory struct {
	mu     sync.Mutex
	orders []order.Order
	txns   []sales.Transaction
	index  map[string]int // order id -> position in orders
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{index: make(map[string]int)}
}

func copyItems(items []cart.LineItem) []cart.LineItem {
	if items == nil {
		return nil
	}
	out := make([]cart.LineItem, len(items))
	copy(out, items)
	return out
}

func copyOrder(o order.Order) order.Order {
	o.Items = copyItems(o.Items)
	return o
}

// checkOrder enforces the same uniqueness the SQLite schema does.
// Callers hold m.mu.
func (m *Memory) checkOrder(o *order.Order) error {
	if _, dup := m.index[o.ID]; dup {
		return fmt.Errorf("store: insert order: duplicate id %s", o.ID)
	}
	for _, existing := range m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return fmt.Errorf("store: insert order: duplicate order number %s", o.OrderNumber)
		}
	}
	return nil
}

// checkTransaction mirrors the transactions table's UNIQUE
// constraints. Callers hold m.mu.
func (m *Memory) checkTransaction(t *sales.Transaction) error {
	for _, existing := range m.txns {
		if existing.ID == t.ID {
			return fmt.Errorf("store: insert transaction: duplicate id %s", t.ID)
		}
		if existing.ReceiptNumber == t.ReceiptNumber {
			return fmt.Errorf("store: insert transaction: duplicate receipt number %s", t.ReceiptNumber)
		}
	}
	return nil
}

// InsertOrder stores a copy of the order. Duplicate ids or order
// numbers are an error.
func (m *Memory) InsertOrder(_ context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOrder(o); err != nil {
		return err
	}
	m.index[o.ID] = len(m.orders)
	m.orders = append(m.orders, copyOrder(*o))
	return nil
}

// CommitSale stores an order and, when t is non-nil, its transaction.
// Both records are validated before either is written, so a failure
// leaves the store untouched.
func (m *Memory) CommitSale(_ context.Context, o *order.Order, t *sales.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOrder(o); err != nil {
		return err
	}
	if t != nil {
		if err := m.checkTransaction(t); err != nil {
			return err
		}
	}

	m.index[o.ID] = len(m.orders)
	m.orders = append(m.orders, copyOrder(*o))
	if t != nil {
		cp := *t
		cp.Items = copyItems(t.Items)
		m.txns = append(m.txns, cp)
	}
	return nil
}

// GetOrder returns a copy of the order, or ErrNotFound.
func (m *Memory) GetOrder(_ context.Context, id string) (*order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return nil, fmt.Errorf("store: order %s: %w", id, ErrNotFound)
	}
	o := copyOrder(m.orders[i])
	return &o, nil
}

// ListOrders returns all orders, oldest first.
func (m *Memory) ListOrders(_ context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, copyOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ActiveOrders returns non-terminal orders, oldest first.
func (m *Memory) ActiveOrders(_ context.Context) ([]order.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []order.Order
	for _, o := range m.orders {
		if !o.Status.Terminal() {
			out = append(out, copyOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateOrderStatus moves an order to a new status.
func (m *Memory) UpdateOrderStatus(_ context.Context, id string, status order.Status, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("store: update order %s: %w", id, ErrNotFound)
	}
	m.orders[i].Status = status
	m.orders[i].UpdatedAt = updatedAt
	return nil
}

// MarkOrderPaid records settlement and completes the order.
func (m *Memory) MarkOrderPaid(_ context.Context, id string, method sales.PaymentMethod, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return fmt.Errorf("store: mark order %s paid: %w", id, ErrNotFound)
	}
	m.orders[i].Status = order.StatusCompleted
	m.orders[i].PaymentStatus = order.Paid
	m.orders[i].PaymentMethod = method
	m.orders[i].UpdatedAt = updatedAt
	return nil
}

// InsertTransaction stores a copy of the transaction. Duplicate ids
// or receipt numbers are an error.
func (m *Memory) InsertTransaction(_ context.Context, t *sales.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTransaction(t); err != nil {
		return err
	}
	cp := *t
	cp.Items = copyItems(t.Items)
	m.txns = append(m.txns, cp)
	return nil
}

// ListTransactions returns all transactions, newest first.
func (m *Memory) ListTransactions(_ context.Context) ([]sales.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]sales.Transaction, 0, len(m.txns))
	for _, t := range m.txns {
		cp := t
		cp.Items = copyItems(t.Items)
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }
