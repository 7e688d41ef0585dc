package receipt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/till/internal/sales"
)

// Report renders a sales summary as fixed width text. Section order is
// stable and maps are printed in sorted key order, so output is
// deterministic for a given summary.
func (r *Renderer) Report(s sales.Summary) string {
	var b strings.Builder
	line := func(str string) {
		b.WriteString(str)
		b.WriteByte('\n')
	}

	line(fmt.Sprintf("SALES REPORT (%s)", s.Window))
	line(heavyRule)
	line(row("Total Sales", r.money(s.TotalSales)))
	line(row("Transactions", fmt.Sprintf("%d", s.TotalTransactions)))
	line(row("Average Sale", r.money(s.AverageTransaction)))

	if s.TotalTransactions == 0 {
		line("")
		line("No transactions in this period.")
		return b.String()
	}

	line("")
	line("Payment Methods")
	line(lightRule)
	for _, mb := range s.PaymentMethods {
		label := fmt.Sprintf("%s %.1f%%", mb.Method, mb.Percentage)
		line(row(label, r.money(mb.Amount)))
	}

	line("")
	line("Top Products")
	line(lightRule)
	for i, ps := range s.TopProducts {
		label := fmt.Sprintf("%d. %s x%d", i+1, ps.Name, ps.Quantity)
		line(row(label, r.money(ps.Revenue)))
	}

	line("")
	line("Sales by Hour")
	line(lightRule)
	for _, h := range s.Hourly {
		if h.Transactions == 0 {
			continue
		}
		bar := ""
		if s.MaxHourlySales > 0 {
			bar = strings.Repeat("#", int(h.Sales/s.MaxHourlySales*barWidth))
		}
		line(row(fmt.Sprintf("%02d:00 %s", h.Hour, bar), r.money(h.Sales)))
	}

	line("")
	line("Sales by Branch")
	line(lightRule)
	branches := make([]string, 0, len(s.SalesByBranch))
	for id := range s.SalesByBranch {
		branches = append(branches, id)
	}
	sort.Strings(branches)
	for _, id := range branches {
		name := "Branch " + id
		if branch, ok := r.catalog.Branch(id); ok {
			name = branch.Name
		}
		line(row(name, r.money(s.SalesByBranch[id])))
	}

	return b.String()
}
