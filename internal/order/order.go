// Package order defines the committed order record and its lifecycle
// state machine.
//
// An order is created atomically from a cart snapshot at checkout and
// after that is mutated only by status transitions. The status chain
// is linear - pending, preparing, ready, served, completed - with a
// terminal cancelled state reachable from any non-completed status.
// Rejected transitions return typed errors; callers decide whether a
// rejection is fatal or ignorable.
package order

import (
	"time"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/sales"
)

// Type distinguishes how an order is fulfilled.
type Type string

const (
	DineIn   Type = "dine-in"
	Takeaway Type = "takeaway"
	Delivery Type = "delivery"
)

// PaymentStatus tracks whether an order has been settled.
type PaymentStatus string

const (
	Unpaid PaymentStatus = "unpaid"
	Paid   PaymentStatus = "paid"
)

// UrgencyThreshold is how long an order may sit in pending before the
// monitor flags it for operator attention.
const UrgencyThreshold = 20 * time.Minute

// Order is a committed, trackable unit of work. Items and totals are
// an owned snapshot of the cart at checkout time; mutating the live
// cart afterwards does not touch them.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number"`
	TableID     string          `json:"table_id,omitempty"` // set iff Type == DineIn
	BranchID    string          `json:"branch_id"`
	CashierID   string          `json:"cashier_id"`
	CustomerID  string          `json:"customer_id,omitempty"`
	Items       []cart.LineItem `json:"items"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	Status        Status              `json:"status"`
	Type          Type                `json:"order_type"`
	Notes         string              `json:"notes,omitempty"`
	PaymentStatus PaymentStatus       `json:"payment_status"`
	PaymentMethod sales.PaymentMethod `json:"payment_method,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Advance moves the order exactly one step forward along the chain in
// response to an operator action. Only pending, preparing and ready
// orders can be advanced manually; a served order completes through
// settlement, and terminal orders never move again.
func (o *Order) Advance(now time.Time) error {
	switch o.Status {
	case StatusPending, StatusPreparing, StatusReady:
		next, _ := Next(o.Status)
		o.Status = next
		o.UpdatedAt = now
		return nil
	case StatusServed:
		return newTransitionError(ErrCodeAwaitingSettlement, o.ID, o.Status)
	default:
		return newTransitionError(ErrCodeTerminalStatus, o.ID, o.Status)
	}
}

// Cancel moves the order to the terminal cancelled state. Allowed from
// any non-terminal status, including served.
func (o *Order) Cancel(now time.Time) error {
	if o.Status.Terminal() {
		return newTransitionError(ErrCodeTerminalStatus, o.ID, o.Status)
	}
	o.Status = StatusCancelled
	o.UpdatedAt = now
	return nil
}

// Urgent reports whether the order has been waiting in pending longer
// than the urgency threshold. Derived at query time, never stored.
func (o *Order) Urgent(now time.Time) bool {
	return o.Status == StatusPending && now.Sub(o.CreatedAt) > UrgencyThreshold
}
