// Package checkout turns a cart into committed records: an order for
// the kitchen, and a transaction once money changes hands.
//
// Commit semantics are copy-on-commit: the order and transaction own
// deep copies of the cart's line items, so mutating the cart after
// checkout can never reach back into a committed record. On success
// the cart is cleared, selections included. There is no payment
// gateway in this design, so a commit that passes validation cannot
// fail for payment reasons; an integrator adding real payment
// processing must add a declined path and must not clear the cart
// until payment is confirmed.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/catalog"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
	"github.com/roach88/till/internal/store"
)

// Request carries the caller-supplied parameters of a checkout.
type Request struct {
	Cashier catalog.User
	Type    order.Type
	// TableID overrides the cart's table selection when set.
	TableID string
	// PaymentMethod is required for takeaway and delivery.
	PaymentMethod sales.PaymentMethod
	// Tendered is the cash amount handed over. Zero means exact.
	Tendered float64
	Notes    string
}

// Result is what a successful checkout produced. Transaction is nil
// for dine-in orders, whose payment is deferred to settlement.
type Result struct {
	Order       *order.Order
	Transaction *sales.Transaction
}

// Service commits carts against a store and catalog.
type Service struct {
	store   store.Store
	catalog *catalog.Catalog
	ids     IDGenerator
	seq     *Sequence
	now     func() time.Time
	taxRate float64
	log     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator injects the internal id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

// WithSequence injects the order/receipt number sequence.
func WithSequence(seq *Sequence) Option {
	return func(s *Service) { s.seq = seq }
}

// WithTaxRate overrides the fallback tax rate used when the cashier's
// branch carries no settings.
func WithTaxRate(rate float64) Option {
	return func(s *Service) { s.taxRate = rate }
}

// WithLogger injects the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New creates a checkout Service.
func New(st store.Store, c *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		store:   st,
		catalog: c,
		ids:     UUIDv7Generator{},
		seq:     NewSequence(),
		now:     time.Now,
		taxRate: cart.DefaultTaxRate,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// rate returns the tax rate for the cashier's branch, falling back to
// the service default when the branch is unknown (e.g. the admin
// account spanning all branches).
func (s *Service) rate(branchID string) float64 {
	if b, ok := s.catalog.Branch(branchID); ok {
		return b.Settings.TaxRate
	}
	return s.taxRate
}

// Checkout validates the cart and request, commits the snapshot, and
// clears the cart. Dine-in orders are committed pending/unpaid against
// an available table; takeaway and delivery are committed
// completed/paid and additionally recorded as a transaction.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, req Request) (*Result, error) {
	if c.Empty() {
		return nil, reject(ErrCodeEmptyCart, "cannot check out an empty cart")
	}

	now := s.now()
	totals := c.Totals(s.rate(req.Cashier.BranchID))
	items := c.Items()
	seq := s.seq.Next()

	o := &order.Order{
		ID:          s.ids.Generate(),
		OrderNumber: fmt.Sprintf("ORD-%06d", seq),
		BranchID:    req.Cashier.BranchID,
		CashierID:   req.Cashier.ID,
		CustomerID:  c.CustomerID,
		Items:       items,
		Subtotal:    totals.Subtotal,
		Discount:    totals.Discount,
		Tax:         totals.Tax,
		Total:       totals.Total,
		Type:        req.Type,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var txn *sales.Transaction
	switch req.Type {
	case order.DineIn:
		tableID := req.TableID
		if tableID == "" {
			tableID = c.TableID
		}
		if tableID == "" {
			return nil, reject(ErrCodeNoTableSelected, "dine-in orders need a table")
		}
		table, ok := s.catalog.Table(tableID)
		if !ok {
			return nil, reject(ErrCodeNoTableSelected, "unknown table %q", tableID)
		}
		if !table.Available() {
			return nil, reject(ErrCodeTableUnavailable, "table %s is %s", table.Name, table.Status)
		}
		o.TableID = table.ID
		o.Status = order.StatusPending
		o.PaymentStatus = order.Unpaid

	case order.Takeaway, order.Delivery:
		if !req.PaymentMethod.Valid() {
			return nil, reject(ErrCodePaymentRequired, "%s orders are paid at checkout", req.Type)
		}
		paid, change, err := tender(req.PaymentMethod, req.Tendered, totals.Total)
		if err != nil {
			return nil, err
		}
		o.Status = order.StatusCompleted
		o.PaymentStatus = order.Paid
		o.PaymentMethod = req.PaymentMethod
		txn = &sales.Transaction{
			ID:            s.ids.Generate(),
			ReceiptNumber: fmt.Sprintf("R-%08d", seq),
			BranchID:      o.BranchID,
			CashierID:     o.CashierID,
			CustomerID:    o.CustomerID,
			Items:         items,
			Subtotal:      totals.Subtotal,
			Discount:      totals.Discount,
			Tax:           totals.Tax,
			Total:         totals.Total,
			PaymentMethod: req.PaymentMethod,
			PaymentAmount: paid,
			ChangeAmount:  change,
			Status:        sales.Completed,
			Timestamp:     now,
		}

	default:
		return nil, reject(ErrCodePaymentRequired, "unknown order type %q", req.Type)
	}

	// One atomic commit: a failure cannot leave a paid order behind
	// with no matching transaction.
	if err := s.store.CommitSale(ctx, o, txn); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	c.Clear()
	s.log.InfoContext(ctx, "order committed",
		"order_number", o.OrderNumber,
		"order_type", string(o.Type),
		"total", o.Total,
		"lines", len(o.Items),
	)
	return &Result{Order: o, Transaction: txn}, nil
}

// Settle collects payment on a previously committed order (the
// dine-in "customer is ready to leave" path), completes it, and
// records the transaction.
func (s *Service) Settle(ctx context.Context, orderID string, method sales.PaymentMethod, tendered float64) (*sales.Transaction, error) {
	o, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}
	if o.Status == order.StatusCancelled {
		return nil, reject(ErrCodeOrderCancelled, "order %s was cancelled", o.OrderNumber)
	}
	if o.PaymentStatus == order.Paid {
		return nil, reject(ErrCodeAlreadySettled, "order %s is already paid", o.OrderNumber)
	}
	if !method.Valid() {
		return nil, reject(ErrCodePaymentRequired, "invalid payment method %q", method)
	}

	paid, change, err := tender(method, tendered, o.Total)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.store.MarkOrderPaid(ctx, o.ID, method, now); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	txn := &sales.Transaction{
		ID:            s.ids.Generate(),
		ReceiptNumber: fmt.Sprintf("R-%08d", s.seq.Next()),
		BranchID:      o.BranchID,
		CashierID:     o.CashierID,
		CustomerID:    o.CustomerID,
		Items:         o.Items,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		Tax:           o.Tax,
		Total:         o.Total,
		PaymentMethod: method,
		PaymentAmount: paid,
		ChangeAmount:  change,
		Status:        sales.Completed,
		Timestamp:     now,
	}
	if err := s.store.InsertTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	s.log.InfoContext(ctx, "order settled",
		"order_number", o.OrderNumber,
		"method", string(method),
		"total", o.Total,
	)
	return txn, nil
}

// tender resolves the paid and change amounts. Zero tendered means
// exact payment; cash tendered below the total is refused.
func tender(method sales.PaymentMethod, tendered, total float64) (paid, change float64, err error) {
	if method != sales.Cash || tendered == 0 {
		return total, 0, nil
	}
	if tendered < total {
		return 0, 0, reject(ErrCodeInsufficientTender, "tendered %.2f against total %.2f", tendered, total)
	}
	return tendered, tendered - total, nil
}
