// Package sales holds the immutable record of finalized sales and the
// reporting aggregations derived from them.
//
// A Transaction is written once at settlement and never mutated; all
// report figures are recomputed from the full filtered set on every
// query. At POS scale there is no need for incremental aggregation.
package sales

import (
	"time"

	"github.com/roach88/till/internal/cart"
)

// PaymentMethod is how a sale was paid.
type PaymentMethod string

const (
	Cash   PaymentMethod = "cash"
	Card   PaymentMethod = "card"
	Mobile PaymentMethod = "mobile"
	Mixed  PaymentMethod = "mixed"
)

// Valid reports whether m is a method a caller may supply at checkout.
// Mixed only appears in historical data; it cannot be selected for a
// new sale.
func (m PaymentMethod) Valid() bool {
	switch m {
	case Cash, Card, Mobile:
		return true
	}
	return false
}

// Status is the settlement state of a transaction.
type Status string

const (
	Completed Status = "completed"
	Voided    Status = "voided"
	Returned  Status = "returned"
)

// Transaction is an immutable record of a finalized sale. Items are an
// owned snapshot; nothing here points back into a live cart.
type Transaction struct {
	ID            string          `json:"id"`
	ReceiptNumber string          `json:"receipt_number"`
	BranchID      string          `json:"branch_id"`
	CashierID     string          `json:"cashier_id"`
	CustomerID    string          `json:"customer_id,omitempty"`
	Items         []cart.LineItem `json:"items"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`

	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentAmount float64       `json:"payment_amount"`
	ChangeAmount  float64       `json:"change_amount"`

	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
