package sales

import (
	"sort"
	"time"
)

// Window selects the reporting period relative to a reference time.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	switch w {
	case WindowToday, WindowWeek, WindowMonth, WindowAll:
		return true
	}
	return false
}

// Start returns the inclusive lower bound of the window relative to
// now: midnight for today, trailing 7x24h for week, first of the month
// for month. The second return is false for the unbounded all window.
func (w Window) Start(now time.Time) (time.Time, bool) {
	switch w {
	case WindowToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case WindowMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// TopProductsLimit caps how many products a summary ranks.
const TopProductsLimit = 10

// MethodBreakdown is one payment method's share of a period's sales.
type MethodBreakdown struct {
	Method     PaymentMethod `json:"method"`
	Amount     float64       `json:"amount"`
	Percentage float64       `json:"percentage"`
}

// ProductSales is one product's aggregate across a period.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// HourBucket is one hour-of-day's sales volume.
type HourBucket struct {
	Hour         int     `json:"hour"`
	Sales        float64 `json:"sales"`
	Transactions int     `json:"transactions"`
}

// Summary is the full set of report figures for one window.
type Summary struct {
	Window             Window            `json:"window"`
	TotalSales         float64           `json:"total_sales"`
	TotalTransactions  int               `json:"total_transactions"`
	AverageTransaction float64           `json:"average_transaction"`
	PaymentMethods     []MethodBreakdown `json:"payment_methods"`
	TopProducts        []ProductSales    `json:"top_products"`
	Hourly             [24]HourBucket    `json:"hourly"`
	MaxHourlySales     float64           `json:"max_hourly_sales"`
	SalesByBranch      map[string]float64 `json:"sales_by_branch"`
}

// Filter returns the completed transactions whose timestamp falls in
// the window. Voided and returned transactions never contribute to
// revenue figures.
func Filter(txns []Transaction, w Window, now time.Time) []Transaction {
	start, bounded := w.Start(now)
	var out []Transaction
	for _, t := range txns {
		if t.Status != Completed {
			continue
		}
		if bounded && t.Timestamp.Before(start) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Summarize computes all report figures for the window. Pure: the same
// inputs always yield the same summary, and nothing is cached between
// calls.
func Summarize(txns []Transaction, w Window, now time.Time) Summary {
	filtered := Filter(txns, w, now)

	s := Summary{
		Window:            w,
		TotalTransactions: len(filtered),
		SalesByBranch:     make(map[string]float64),
	}
	for i := range s.Hourly {
		s.Hourly[i].Hour = i
	}

	byMethod := make(map[PaymentMethod]float64)
	byProduct := make(map[string]*ProductSales)

	for _, t := range filtered {
		s.TotalSales += t.Total
		byMethod[t.PaymentMethod] += t.Total
		s.SalesByBranch[t.BranchID] += t.Total

		h := t.Timestamp.Hour()
		s.Hourly[h].Sales += t.Total
		s.Hourly[h].Transactions++

		for _, item := range t.Items {
			ps, ok := byProduct[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Name: item.Name}
				byProduct[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += item.Subtotal
		}
	}

	// Average guards the empty window; never divide by zero.
	if s.TotalTransactions > 0 {
		s.AverageTransaction = s.TotalSales / float64(s.TotalTransactions)
	}

	for method, amount := range byMethod {
		mb := MethodBreakdown{Method: method, Amount: amount}
		if s.TotalSales > 0 {
			mb.Percentage = amount / s.TotalSales * 100
		}
		s.PaymentMethods = append(s.PaymentMethods, mb)
	}
	sort.Slice(s.PaymentMethods, func(i, j int) bool {
		a, b := s.PaymentMethods[i], s.PaymentMethods[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Method < b.Method
	})

	for _, ps := range byProduct {
		s.TopProducts = append(s.TopProducts, *ps)
	}
	sort.Slice(s.TopProducts, func(i, j int) bool {
		a, b := s.TopProducts[i], s.TopProducts[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.ProductID < b.ProductID
	})
	if len(s.TopProducts) > TopProductsLimit {
		s.TopProducts = s.TopProducts[:TopProductsLimit]
	}

	for _, b := range s.Hourly {
		if b.Sales > s.MaxHourlySales {
			s.MaxHourlySales = b.Sales
		}
	}

	return s
}
