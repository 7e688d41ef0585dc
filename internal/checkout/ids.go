package checkout

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

// IDGenerator produces internal identifiers for orders and
// transactions. Implemented by UUIDv7Generator (production) and
// FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
// Sortability by creation time keeps database listings in commit
// order without an extra sequence column.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string. Panics if
// UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined identifiers for testing, so
// checkout output can be compared exactly.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order and
// panics when exhausted - a test consuming more ids than it supplied
// is a test bug.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("checkout: FixedGenerator exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Sequence hands out strictly increasing numbers for human-readable
// order and receipt numbers. Safe for concurrent use; two checkouts in
// the same process can never collide.
type Sequence struct {
	n atomic.Int64
}

// NewSequence creates a sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a sequence resuming after start, for processes
// that reopen an existing store.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.n.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// numberSuffix parses the numeric tail of a formatted order or
// receipt number ("ORD-000042" -> 42). Unparseable values count as
// zero.
func numberSuffix(s string) int64 {
	i := strings.LastIndexByte(s, '-')
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ResumeSequence returns a Sequence that continues past every order
// and receipt number already in the store. Both sides feed one
// sequence, so both must be scanned: a store holding only seeded
// transactions must still push the next receipt number past the
// seeded ones, or the receipt_number uniqueness guarantee breaks.
func ResumeSequence(orders []order.Order, txns []sales.Transaction) *Sequence {
	var max int64
	for i := range orders {
		if n := numberSuffix(orders[i].OrderNumber); n > max {
			max = n
		}
	}
	for i := range txns {
		if n := numberSuffix(txns[i].ReceiptNumber); n > max {
			max = n
		}
	}
	return NewSequenceAt(max)
}
