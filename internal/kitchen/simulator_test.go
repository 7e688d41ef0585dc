package kitchen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/store"
)

var kitchenNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func seedOrder(t *testing.T, s store.Store, id string, status order.Status) {
	t.Helper()
	err := s.InsertOrder(context.Background(), &order.Order{
		ID:          id,
		OrderNumber: "ORD-" + id,
		BranchID:    "1",
		CashierID:   "3",
		Items: []cart.LineItem{
			{ProductID: "1", Name: "Premium Coffee Blend", Quantity: 1, UnitPrice: 4.99, Subtotal: 4.99},
		},
		Status:        status,
		Type:          order.DineIn,
		PaymentStatus: order.Unpaid,
		CreatedAt:     kitchenNow,
		UpdatedAt:     kitchenNow,
	})
	require.NoError(t, err)
}

func TestTick_AdvancesOneStep(t *testing.T) {
	mem := store.NewMemory()
	seedOrder(t, mem, "ord-1", order.StatusPending)
	seedOrder(t, mem, "ord-2", order.StatusReady)

	sim := New(mem,
		WithRand(func() float64 { return 0 }), // always below the threshold
		WithClock(func() time.Time { return kitchenNow.Add(time.Minute) }),
	)

	advanced, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, advanced)

	got, err := mem.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, got.Status, "single step only")
	assert.True(t, kitchenNow.Add(time.Minute).Equal(got.UpdatedAt))

	got, err = mem.GetOrder(context.Background(), "ord-2")
	require.NoError(t, err)
	assert.Equal(t, order.StatusServed, got.Status)
}

func TestTick_RespectsProbability(t *testing.T) {
	mem := store.NewMemory()
	seedOrder(t, mem, "ord-1", order.StatusPending)

	sim := New(mem, WithRand(func() float64 { return 1 })) // never advances

	advanced, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, advanced)

	got, err := mem.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
}

func TestTick_SkipsTerminalOrders(t *testing.T) {
	mem := store.NewMemory()
	seedOrder(t, mem, "ord-1", order.StatusCancelled)
	seedOrder(t, mem, "ord-2", order.StatusCompleted)

	sim := New(mem, WithRand(func() float64 { return 0 }))

	advanced, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, advanced, "terminal orders are not active")
}

func TestTick_ServedOrderCompletes(t *testing.T) {
	mem := store.NewMemory()
	seedOrder(t, mem, "ord-1", order.StatusServed)

	sim := New(mem, WithRand(func() float64 { return 0 }))

	advanced, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	got, err := mem.GetOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCompleted, got.Status)
}

func TestTick_SequencedChances(t *testing.T) {
	mem := store.NewMemory()
	seedOrder(t, mem, "ord-1", order.StatusPending)
	seedOrder(t, mem, "ord-2", order.StatusPending)
	seedOrder(t, mem, "ord-3", order.StatusPending)

	// Only the second draw falls below the threshold.
	draws := []float64{0.9, 0.01, 0.9}
	i := 0
	sim := New(mem, WithRand(func() float64 {
		v := draws[i%len(draws)]
		i++
		return v
	}))

	advanced, err := sim.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	got, err := mem.GetOrder(context.Background(), "ord-2")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPreparing, got.Status)
}

func TestRun_StopsOnCancel(t *testing.T) {
	mem := store.NewMemory()
	seedOrder(t, mem, "ord-1", order.StatusPending)

	sim := New(mem,
		WithInterval(time.Millisecond),
		WithRand(func() float64 { return 0 }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx) }()

	// Wait for the sweep loop to walk the order to terminal.
	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := mem.GetOrder(context.Background(), "ord-1")
		require.NoError(t, err)
		if got.Status == order.StatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("order stuck at %s", got.Status)
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop on cancel")
	}
}
