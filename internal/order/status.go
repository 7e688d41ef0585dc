package order

// Status is the kitchen/service lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusServed    Status = "served"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// chain is the linear progression of an order through the kitchen.
// Cancelled sits outside the chain and is reachable only via Cancel.
var chain = []Status{StatusPending, StatusPreparing, StatusReady, StatusServed, StatusCompleted}

// Next returns the successor of s along the chain. The second return
// is false when s has no successor (completed, cancelled, or unknown).
func Next(s Status) (Status, bool) {
	for i, cur := range chain {
		if cur == s && i < len(chain)-1 {
			return chain[i+1], true
		}
	}
	return s, false
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	for _, cur := range chain {
		if cur == s {
			return true
		}
	}
	return false
}

// Active reports whether the order still needs kitchen or service
// attention. This is what the order monitor shows by default.
func (s Status) Active() bool {
	return s.Valid() && !s.Terminal()
}
