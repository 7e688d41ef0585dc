// Package kitchen simulates a kitchen working through open orders.
//
// The Simulator is a demo driver, not business logic: it sweeps the
// active orders on a fixed interval and pushes each one a single step
// down the normal status chain with a small per-tick probability. The
// authoritative transition surface stays the explicit advance and
// cancel operations; the simulator merely exercises them the way a
// busy kitchen would.
package kitchen

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/store"
)

const (
	// DefaultInterval is the sweep period.
	DefaultInterval = 3 * time.Second

	// DefaultProbability is the chance an active order advances one
	// step on a given tick.
	DefaultProbability = 0.05
)

// Simulator advances active orders at random over time.
type Simulator struct {
	store       store.Store
	interval    time.Duration
	probability float64
	chance      func() float64
	now         func() time.Time
	log         *slog.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithInterval sets the sweep period.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) { s.interval = d }
}

// WithProbability sets the per-order, per-tick advance probability.
func WithProbability(p float64) Option {
	return func(s *Simulator) { s.probability = p }
}

// WithRand injects the randomness source. Tests pass a seeded rand or
// a constant function to make sweeps deterministic.
func WithRand(chance func() float64) Option {
	return func(s *Simulator) { s.chance = chance }
}

// WithClock injects the time source used for order update timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// WithLogger injects the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Simulator) { s.log = log }
}

// New creates a Simulator over the given store.
func New(st store.Store, opts ...Option) *Simulator {
	s := &Simulator{
		store:       st,
		interval:    DefaultInterval,
		probability: DefaultProbability,
		now:         time.Now,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.chance == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		s.chance = rng.Float64
	}
	return s
}

// Run sweeps until the context is cancelled. Sweep errors are logged
// and do not stop the loop; the next tick retries from fresh state.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.InfoContext(ctx, "kitchen simulator started",
		"interval", s.interval,
		"probability", s.probability,
	)
	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "kitchen simulator stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.log.WarnContext(ctx, "sweep failed", "error", err)
			}
		}
	}
}

// Tick performs one sweep and returns how many orders advanced.
func (s *Simulator) Tick(ctx context.Context) (int, error) {
	active, err := s.store.ActiveOrders(ctx)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, o := range active {
		if s.chance() >= s.probability {
			continue
		}
		next, ok := order.Next(o.Status)
		if !ok {
			continue
		}
		if err := s.store.UpdateOrderStatus(ctx, o.ID, next, s.now()); err != nil {
			s.log.WarnContext(ctx, "advance failed",
				"order_number", o.OrderNumber,
				"error", err,
			)
			continue
		}
		advanced++
		s.log.DebugContext(ctx, "order advanced",
			"order_number", o.OrderNumber,
			"from", string(o.Status),
			"to", string(next),
		)
	}
	return advanced, nil
}
