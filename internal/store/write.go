package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

// timeFormat is how timestamps are stored: RFC 3339 with a fixed
// nine-digit fraction. The width is fixed so the strings sort
// lexicographically in timestamp order, which ORDER BY created_at
// relies on. RFC3339Nano would trim trailing zeros and break that for
// whole-second timestamps.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// execer is satisfied by both *sql.DB and *sql.Tx, so the insert
// statements can run standalone or inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func marshalItems(items []cart.LineItem) (string, error) {
	if items == nil {
		items = []cart.LineItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(b), nil
}

func insertOrder(ctx context.Context, q execer, o *order.Order) error {
	itemsJSON, err := marshalItems(o.Items)
	if err != nil {
		return fmt.Errorf("store: insert order: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO orders
		(id, order_number, table_id, branch_id, cashier_id, customer_id, items,
		 subtotal, discount, tax, total, status, order_type, notes,
		 payment_status, payment_method, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		o.ID,
		o.OrderNumber,
		o.TableID,
		o.BranchID,
		o.CashierID,
		o.CustomerID,
		itemsJSON,
		o.Subtotal,
		o.Discount,
		o.Tax,
		o.Total,
		string(o.Status),
		string(o.Type),
		o.Notes,
		string(o.PaymentStatus),
		string(o.PaymentMethod),
		o.CreatedAt.Format(timeFormat),
		o.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("store: insert order: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, q execer, t *sales.Transaction) error {
	itemsJSON, err := marshalItems(t.Items)
	if err != nil {
		return fmt.Errorf("store: insert transaction: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO transactions
		(id, receipt_number, branch_id, cashier_id, customer_id, items,
		 subtotal, discount, tax, total, payment_method, payment_amount,
		 change_amount, status, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID,
		t.ReceiptNumber,
		t.BranchID,
		t.CashierID,
		t.CustomerID,
		itemsJSON,
		t.Subtotal,
		t.Discount,
		t.Tax,
		t.Total,
		string(t.PaymentMethod),
		t.PaymentAmount,
		t.ChangeAmount,
		string(t.Status),
		t.Timestamp.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("store: insert transaction: %w", err)
	}
	return nil
}

// InsertOrder writes a committed order. Duplicate ids are an error:
// orders are inserted exactly once at checkout.
func (s *SQLite) InsertOrder(ctx context.Context, o *order.Order) error {
	return insertOrder(ctx, s.db, o)
}

// InsertTransaction writes a finalized sale. Transactions are
// immutable; there is deliberately no update path.
func (s *SQLite) InsertTransaction(ctx context.Context, t *sales.Transaction) error {
	return insertTransaction(ctx, s.db, t)
}

// CommitSale writes an order and its transaction in one SQL
// transaction. Either both land or neither does; a failed commit
// leaves no phantom order behind. t may be nil for orders whose
// payment is deferred.
func (s *SQLite) CommitSale(ctx context.Context, o *order.Order, t *sales.Transaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: commit sale: %w", err)
	}
	if err := insertOrder(ctx, tx, o); err != nil {
		tx.Rollback()
		return err
	}
	if t != nil {
		if err := insertTransaction(ctx, tx, t); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit sale: %w", err)
	}
	return nil
}

// UpdateOrderStatus moves an order to a new status and stamps
// updated_at. Unknown ids return ErrNotFound.
func (s *SQLite) UpdateOrderStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), updatedAt.Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("store: update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update order status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: update order %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkOrderPaid records settlement: payment method and status, order
// completed. Unknown ids return ErrNotFound.
func (s *SQLite) MarkOrderPaid(ctx context.Context, id string, method sales.PaymentMethod, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, payment_status = ?, payment_method = ?, updated_at = ?
		WHERE id = ?
	`,
		string(order.StatusCompleted),
		string(order.Paid),
		string(method),
		updatedAt.Format(timeFormat),
		id,
	)
	if err != nil {
		return fmt.Errorf("store: mark order paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: mark order paid: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: mark order %s paid: %w", id, ErrNotFound)
	}
	return nil
}
