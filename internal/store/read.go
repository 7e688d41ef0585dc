package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

const orderColumns = `id, order_number, table_id, branch_id, cashier_id, customer_id, items,
	subtotal, discount, tax, total, status, order_type, notes,
	payment_status, payment_method, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*order.Order, error) {
	var (
		o          order.Order
		tableID    sql.NullString
		customerID sql.NullString
		itemsJSON  string
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &tableID, &o.BranchID, &o.CashierID, &customerID,
		&itemsJSON, &o.Subtotal, &o.Discount, &o.Tax, &o.Total,
		&o.Status, &o.Type, &o.Notes, &o.PaymentStatus, &o.PaymentMethod,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.TableID = tableID.String
	o.CustomerID = customerID.String

	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if o.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if o.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &o, nil
}

// GetOrder loads one order by id. Returns ErrNotFound for unknown ids.
func (s *SQLite) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get order: %w", err)
	}
	return o, nil
}

func (s *SQLite) queryOrders(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list orders: %w", err)
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list orders: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list orders: %w", err)
	}
	return out, nil
}

// ListOrders returns every order, oldest first.
func (s *SQLite) ListOrders(ctx context.Context) ([]order.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at, id`)
}

// ActiveOrders returns non-terminal orders, oldest first.
func (s *SQLite) ActiveOrders(ctx context.Context) ([]order.Order, error) {
	return s.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE status NOT IN (?, ?)
		 ORDER BY created_at, id`,
		string(order.StatusCompleted), string(order.StatusCancelled))
}

// ListTransactions returns every transaction, newest first.
func (s *SQLite) ListTransactions(ctx context.Context) ([]sales.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, receipt_number, branch_id, cashier_id, customer_id, items,
		       subtotal, discount, tax, total, payment_method, payment_amount,
		       change_amount, status, timestamp
		FROM transactions
		ORDER BY timestamp DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	defer rows.Close()

	var out []sales.Transaction
	for rows.Next() {
		var (
			t          sales.Transaction
			customerID sql.NullString
			itemsJSON  string
			timestamp  string
		)
		err := rows.Scan(
			&t.ID, &t.ReceiptNumber, &t.BranchID, &t.CashierID, &customerID,
			&itemsJSON, &t.Subtotal, &t.Discount, &t.Tax, &t.Total,
			&t.PaymentMethod, &t.PaymentAmount, &t.ChangeAmount, &t.Status,
			&timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("store: list transactions: %w", err)
		}
		t.CustomerID = customerID.String
		if err := json.Unmarshal([]byte(itemsJSON), &t.Items); err != nil {
			return nil, fmt.Errorf("store: list transactions: unmarshal items: %w", err)
		}
		if t.Timestamp, err = time.Parse(timeFormat, timestamp); err != nil {
			return nil, fmt.Errorf("store: list transactions: parse timestamp: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	return out, nil
}
