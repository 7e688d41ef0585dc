package order

import (
	"errors"
	"fmt"
)

// TransitionError reports a rejected status transition. The order is
// left in its prior state; the error tells the caller why the move was
// refused.
type TransitionError struct {
	Code    TransitionErrorCode
	OrderID string
	From    Status
}

// TransitionErrorCode categorizes transition rejections.
type TransitionErrorCode string

const (
	// ErrCodeTerminalStatus indicates the order is completed or
	// cancelled and can never move again.
	ErrCodeTerminalStatus TransitionErrorCode = "TERMINAL_STATUS"

	// ErrCodeAwaitingSettlement indicates a served order that must be
	// settled (paid) rather than advanced by the kitchen.
	ErrCodeAwaitingSettlement TransitionErrorCode = "AWAITING_SETTLEMENT"
)

func newTransitionError(code TransitionErrorCode, orderID string, from Status) *TransitionError {
	return &TransitionError{Code: code, OrderID: orderID, From: from}
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: order %s cannot leave status %q", e.Code, e.OrderID, e.From)
}

// IsTerminalError returns true if err is a rejection because the order
// reached a terminal status. Uses errors.As to handle wrapped errors.
func IsTerminalError(err error) bool {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Code == ErrCodeTerminalStatus
	}
	return false
}
