// Package store persists orders and transactions.
//
// The rest of the core is written against the Store interface so the
// datastore is injected rather than imported as an ambient singleton.
// Two implementations exist: SQLite for durable state and Memory for
// tests and ephemeral runs.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when an order id is unknown to the store.
var ErrNotFound = errors.New("store: not found")

// Store owns the order and transaction records.
type Store interface {
	InsertOrder(ctx context.Context, o *order.Order) error
	// CommitSale writes an order and, when t is non-nil, its
	// transaction atomically. A failed commit leaves neither record
	// behind.
	CommitSale(ctx context.Context, o *order.Order, t *sales.Transaction) error
	GetOrder(ctx context.Context, id string) (*order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
	// ActiveOrders returns the orders in a non-terminal status, oldest
	// first. This is the sweep set for the kitchen simulator and the
	// default monitor view.
	ActiveOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status order.Status, updatedAt time.Time) error
	// MarkOrderPaid settles an order: payment recorded, status
	// completed. Validation of the transition belongs to the caller.
	MarkOrderPaid(ctx context.Context, id string, method sales.PaymentMethod, updatedAt time.Time) error

	InsertTransaction(ctx context.Context, t *sales.Transaction) error
	ListTransactions(ctx context.Context) ([]sales.Transaction, error)

	Close() error
}

// SQLite is the durable Store implementation.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// Open creates or opens a SQLite database at the given path and
// applies pragmas and the schema. Idempotent - safe to call against an
// existing database.
//
// The database is configured with WAL mode for concurrent reads,
// NORMAL synchronous mode, a 5-second busy timeout, and foreign key
// enforcement.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
