package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

var storeNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// runStoreTests runs f against both implementations. The interface
// contract is identical; only durability differs.
func runStoreTests(t *testing.T, f func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(filepath.Join(t.TempDir(), "till.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		f(t, s)
	})
	t.Run("memory", func(t *testing.T) {
		f(t, NewMemory())
	})
}

func testOrder(id string, status order.Status, createdAt time.Time) *order.Order {
	return &order.Order{
		ID:          id,
		OrderNumber: "ORD-" + id,
		TableID:     "4",
		BranchID:    "1",
		CashierID:   "3",
		Items: []cart.LineItem{
			{ProductID: "1", SKU: "COFFEE-001", Name: "Premium Coffee Blend", Quantity: 2, UnitPrice: 4.99, Subtotal: 9.98},
		},
		Subtotal:      9.98,
		Tax:           0.8483,
		Total:         10.8283,
		Status:        status,
		Type:          order.DineIn,
		PaymentStatus: order.Unpaid,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestStore_OrderRoundTrip(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		want := testOrder("ord-1", order.StatusPending, storeNow)
		require.NoError(t, s.InsertOrder(ctx, want))

		got, err := s.GetOrder(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, want.OrderNumber, got.OrderNumber)
		assert.Equal(t, want.TableID, got.TableID)
		assert.Equal(t, want.Items, got.Items)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.PaymentStatus, got.PaymentStatus)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestStore_GetOrder_NotFound(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		_, err := s.GetOrder(context.Background(), "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_InsertOrder_DuplicateID(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusPending, storeNow)))
		require.Error(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusPending, storeNow)))
	})
}

func TestStore_ActiveOrders(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusPending, storeNow)))
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-2", order.StatusCompleted, storeNow.Add(time.Minute))))
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-3", order.StatusPreparing, storeNow.Add(2*time.Minute))))
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-4", order.StatusCancelled, storeNow.Add(3*time.Minute))))

		active, err := s.ActiveOrders(ctx)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "ord-1", active[0].ID, "oldest first")
		assert.Equal(t, "ord-3", active[1].ID)

		all, err := s.ListOrders(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}

func TestStore_UpdateOrderStatus(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusPending, storeNow)))

		later := storeNow.Add(5 * time.Minute)
		require.NoError(t, s.UpdateOrderStatus(ctx, "ord-1", order.StatusPreparing, later))

		got, err := s.GetOrder(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPreparing, got.Status)
		assert.True(t, later.Equal(got.UpdatedAt))

		err = s.UpdateOrderStatus(ctx, "ghost", order.StatusReady, later)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_MarkOrderPaid(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusServed, storeNow)))

		later := storeNow.Add(30 * time.Minute)
		require.NoError(t, s.MarkOrderPaid(ctx, "ord-1", sales.Card, later))

		got, err := s.GetOrder(ctx, "ord-1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusCompleted, got.Status)
		assert.Equal(t, order.Paid, got.PaymentStatus)
		assert.Equal(t, sales.Card, got.PaymentMethod)

		err = s.MarkOrderPaid(ctx, "ghost", sales.Cash, later)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_CommitSale(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		o := testOrder("ord-1", order.StatusCompleted, storeNow)
		txn := &sales.Transaction{
			ID:            "txn-1",
			ReceiptNumber: "R-00000001",
			BranchID:      "1",
			CashierID:     "3",
			PaymentMethod: sales.Cash,
			Status:        sales.Completed,
			Timestamp:     storeNow,
		}
		require.NoError(t, s.CommitSale(ctx, o, txn))

		_, err := s.GetOrder(ctx, "ord-1")
		require.NoError(t, err)
		txns, err := s.ListTransactions(ctx)
		require.NoError(t, err)
		assert.Len(t, txns, 1)

		// Deferred-payment commits carry no transaction.
		require.NoError(t, s.CommitSale(ctx, testOrder("ord-2", order.StatusPending, storeNow), nil))
		txns, err = s.ListTransactions(ctx)
		require.NoError(t, err)
		assert.Len(t, txns, 1)
	})
}

func TestStore_CommitSale_AtomicOnDuplicateReceipt(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		seeded := &sales.Transaction{
			ID:            "txn-seeded",
			ReceiptNumber: "R-00000001",
			BranchID:      "1",
			CashierID:     "3",
			PaymentMethod: sales.Card,
			Status:        sales.Completed,
			Timestamp:     storeNow,
		}
		require.NoError(t, s.InsertTransaction(ctx, seeded))

		colliding := &sales.Transaction{
			ID:            "txn-new",
			ReceiptNumber: "R-00000001",
			BranchID:      "1",
			CashierID:     "3",
			PaymentMethod: sales.Cash,
			Status:        sales.Completed,
			Timestamp:     storeNow.Add(time.Hour),
		}
		err := s.CommitSale(ctx, testOrder("ord-1", order.StatusCompleted, storeNow), colliding)
		require.Error(t, err)

		// The order must not survive the failed commit.
		orders, listErr := s.ListOrders(ctx)
		require.NoError(t, listErr)
		assert.Empty(t, orders)
		txns, listErr := s.ListTransactions(ctx)
		require.NoError(t, listErr)
		assert.Len(t, txns, 1)
	})
}

func TestStore_InsertTransaction_DuplicateReceiptNumber(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := sales.Transaction{
			ReceiptNumber: "R-00000001",
			BranchID:      "1",
			CashierID:     "3",
			PaymentMethod: sales.Cash,
			Status:        sales.Completed,
			Timestamp:     storeNow,
		}
		first := base
		first.ID = "txn-1"
		require.NoError(t, s.InsertTransaction(ctx, &first))

		second := base
		second.ID = "txn-2"
		require.Error(t, s.InsertTransaction(ctx, &second))
	})
}

func TestStore_SubsecondTimestampOrdering(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		// A whole-second timestamp must sort before one half a second
		// later, which breaks if stored strings trim trailing zeros.
		whole := storeNow
		half := storeNow.Add(500 * time.Millisecond)
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusPending, whole)))
		require.NoError(t, s.InsertOrder(ctx, testOrder("ord-2", order.StatusPending, half)))

		active, err := s.ActiveOrders(ctx)
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "ord-1", active[0].ID)
		assert.Equal(t, "ord-2", active[1].ID)

		for i, ts := range []time.Time{half, whole} {
			tx := &sales.Transaction{
				ID:            "txn-" + string(rune('a'+i)),
				ReceiptNumber: "R-" + string(rune('a'+i)),
				BranchID:      "1",
				CashierID:     "3",
				PaymentMethod: sales.Card,
				Status:        sales.Completed,
				Timestamp:     ts,
			}
			require.NoError(t, s.InsertTransaction(ctx, tx))
		}
		txns, err := s.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, "txn-a", txns[0].ID, "newest (sub-second) first")
		assert.Equal(t, "txn-b", txns[1].ID)
	})
}

func TestStore_TransactionRoundTrip(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		want := &sales.Transaction{
			ID:            "txn-1",
			ReceiptNumber: "R-00000001",
			BranchID:      "1",
			CashierID:     "3",
			Items: []cart.LineItem{
				{ProductID: "2", SKU: "CROISSANT-001", Name: "Butter Croissant", Quantity: 1, UnitPrice: 3.50, Subtotal: 3.50},
			},
			Subtotal:      3.50,
			Tax:           0.2975,
			Total:         3.7975,
			PaymentMethod: sales.Cash,
			PaymentAmount: 5,
			ChangeAmount:  1.2025,
			Status:        sales.Completed,
			Timestamp:     storeNow,
		}
		require.NoError(t, s.InsertTransaction(ctx, want))

		got, err := s.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, want.ReceiptNumber, got[0].ReceiptNumber)
		assert.Equal(t, want.Items, got[0].Items)
		assert.Equal(t, want.PaymentMethod, got[0].PaymentMethod)
		assert.InDelta(t, want.ChangeAmount, got[0].ChangeAmount, 1e-9)
		assert.True(t, want.Timestamp.Equal(got[0].Timestamp))
	})
}

func TestStore_ListTransactions_NewestFirst(t *testing.T) {
	runStoreTests(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		for i, ts := range []time.Time{storeNow, storeNow.Add(2 * time.Hour), storeNow.Add(time.Hour)} {
			tx := &sales.Transaction{
				ID:            "txn-" + string(rune('a'+i)),
				ReceiptNumber: "R-" + string(rune('a'+i)),
				BranchID:      "1",
				CashierID:     "3",
				PaymentMethod: sales.Card,
				Status:        sales.Completed,
				Timestamp:     ts,
			}
			require.NoError(t, s.InsertTransaction(ctx, tx))
		}

		got, err := s.ListTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "txn-b", got[0].ID)
		assert.Equal(t, "txn-c", got[1].ID)
		assert.Equal(t, "txn-a", got[2].ID)
	})
}

func TestMemory_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	o := testOrder("ord-1", order.StatusPending, storeNow)
	require.NoError(t, m.InsertOrder(ctx, o))
	o.Items[0].Quantity = 99 // caller keeps mutating its copy

	got, err := m.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)

	got.Items[0].Quantity = 55
	again, err := m.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "till.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.InsertOrder(ctx, testOrder("ord-1", order.StatusPending, storeNow)))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetOrder(ctx, "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "ORD-ord-1", got.OrderNumber)
}
