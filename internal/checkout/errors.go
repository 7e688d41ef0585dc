package checkout

import (
	"errors"
	"fmt"
)

// RejectError reports a checkout or settlement that was refused before
// any state changed. The cart and store are untouched when one of
// these is returned.
type RejectError struct {
	Code    RejectCode
	Message string
}

// RejectCode categorizes checkout rejections.
type RejectCode string

const (
	// ErrCodeEmptyCart indicates a checkout with no line items.
	ErrCodeEmptyCart RejectCode = "EMPTY_CART"

	// ErrCodeNoTableSelected indicates a dine-in checkout without a
	// table.
	ErrCodeNoTableSelected RejectCode = "NO_TABLE_SELECTED"

	// ErrCodeTableUnavailable indicates the selected table is not in
	// the available state.
	ErrCodeTableUnavailable RejectCode = "TABLE_UNAVAILABLE"

	// ErrCodePaymentRequired indicates a takeaway/delivery checkout or
	// a settlement without a valid payment method.
	ErrCodePaymentRequired RejectCode = "PAYMENT_REQUIRED"

	// ErrCodeInsufficientTender indicates cash tendered below the
	// total due.
	ErrCodeInsufficientTender RejectCode = "INSUFFICIENT_TENDER"

	// ErrCodeAlreadySettled indicates a second settlement attempt.
	ErrCodeAlreadySettled RejectCode = "ALREADY_SETTLED"

	// ErrCodeOrderCancelled indicates a settlement against a cancelled
	// order.
	ErrCodeOrderCancelled RejectCode = "ORDER_CANCELLED"
)

func reject(code RejectCode, format string, args ...any) *RejectError {
	return &RejectError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *RejectError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsReject returns true if err is a checkout rejection, and its code.
// Uses errors.As to handle wrapped errors.
func IsReject(err error) (RejectCode, bool) {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}
