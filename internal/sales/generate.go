package sales

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/catalog"
)

// Generator produces synthetic transactions from catalog data. The
// rand source and reference time are injected so demo seeds and tests
// are reproducible.
type Generator struct {
	Catalog *catalog.Catalog
	Rand    *rand.Rand
	Now     time.Time
	TaxRate float64
}

// NewGenerator creates a Generator with the default tax rate.
func NewGenerator(c *catalog.Catalog, seed int64, now time.Time) *Generator {
	return &Generator{
		Catalog: c,
		Rand:    rand.New(rand.NewSource(seed)),
		Now:     now,
		TaxRate: cart.DefaultTaxRate,
	}
}

// Transactions generates n synthetic completed sales spread over the
// trailing 30 days, newest first. Roughly 5% come out voided and a
// fifth of the lines carry a small discount, so reports built on the
// output exercise every aggregation path.
func (g *Generator) Transactions(n int) []Transaction {
	// The CUE schema admits seeds with no branches or no products;
	// there is nothing to sell from those, so generate nothing.
	if len(g.Catalog.Branches) == 0 || len(g.Catalog.Products) == 0 {
		return nil
	}

	methods := []PaymentMethod{Cash, Card, Mobile, Mixed}
	out := make([]Transaction, 0, n)

	for i := 0; i < n; i++ {
		items := g.lineItems(1+g.Rand.Intn(3), 0.2)

		var subtotal, discount float64
		for _, li := range items {
			subtotal += li.Subtotal
			discount += li.Discount
		}
		tax := subtotal * g.TaxRate
		total := subtotal + tax

		method := methods[g.Rand.Intn(len(methods))]
		paid := total
		var change float64
		if method == Cash {
			change = float64(g.Rand.Intn(1000)) / 100
			paid = total + change
		}

		status := Completed
		if g.Rand.Float64() < 0.05 {
			status = Voided
		}

		branch := g.Catalog.Branches[g.Rand.Intn(len(g.Catalog.Branches))]
		var customerID string
		if len(g.Catalog.Customers) > 0 && g.Rand.Float64() > 0.6 {
			customerID = g.Catalog.Customers[g.Rand.Intn(len(g.Catalog.Customers))].ID
		}

		age := time.Duration(g.Rand.Int63n(int64(30 * 24 * time.Hour)))
		out = append(out, Transaction{
			ID:            fmt.Sprintf("txn-%06d", i+1),
			ReceiptNumber: fmt.Sprintf("R-%08d", i+1),
			BranchID:      branch.ID,
			CashierID:     g.cashierID(),
			CustomerID:    customerID,
			Items:         items,
			Subtotal:      subtotal,
			Discount:      discount,
			Tax:           tax,
			Total:         total,
			PaymentMethod: method,
			PaymentAmount: paid,
			ChangeAmount:  change,
			Status:        status,
			Timestamp:     g.Now.Add(-age),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// lineItems picks count distinct products and builds priced lines for
// them. discountChance is the probability a line gets a discount of up
// to $2.
func (g *Generator) lineItems(count int, discountChance float64) []cart.LineItem {
	products := g.Catalog.Products
	if count > len(products) {
		count = len(products)
	}
	picks := g.Rand.Perm(len(products))[:count]

	items := make([]cart.LineItem, 0, count)
	for _, idx := range picks {
		p := products[idx]
		qty := 1 + g.Rand.Intn(3)
		var disc float64
		if g.Rand.Float64() < discountChance {
			disc = g.Rand.Float64() * 2
		}
		items = append(items, cart.LineItem{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
			Discount:  disc,
			Subtotal:  p.Price*float64(qty) - disc,
		})
	}
	return items
}

// cashierID returns the first cashier or manager account, matching
// who would realistically ring up walk-in sales.
func (g *Generator) cashierID() string {
	for _, u := range g.Catalog.Users {
		if u.Role == catalog.RoleCashier || u.Role == catalog.RoleManager {
			return u.ID
		}
	}
	return ""
}
