// Package receipt renders transactions and report summaries as fixed
// width text, the shape a thermal printer or terminal expects.
//
// Rendering is lookup-only: a Renderer reads names from the catalog but
// never mutates anything, and the same inputs always produce the same
// bytes. Golden tests depend on that.
package receipt

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/till/internal/catalog"
	"github.com/roach88/till/internal/sales"
)

// width is the printable column count. 40 matches the common 80mm
// thermal paper at standard font size.
const width = 40

// barWidth caps the hour histogram bars in report output.
const barWidth = 20

// Renderer formats receipts and reports. Names come from the catalog;
// unknown ids fall back to the raw id so old records still print.
type Renderer struct {
	catalog *catalog.Catalog
	printer *message.Printer
}

// NewRenderer creates a Renderer. Amounts are formatted for en-US with
// grouping, so $1,234.50 prints as customers expect.
func NewRenderer(c *catalog.Catalog) *Renderer {
	return &Renderer{
		catalog: c,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
}

func (r *Renderer) money(v float64) string {
	return r.printer.Sprintf("$%.2f", v)
}

// row lays out a label on the left and an amount flush right.
func row(label, amount string) string {
	pad := width - len(label) - len(amount)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + amount
}

func center(s string) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

var (
	heavyRule = strings.Repeat("=", width)
	lightRule = strings.Repeat("-", width)
)

// Receipt renders one transaction as printable text.
func (r *Renderer) Receipt(txn *sales.Transaction) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line(heavyRule)
	if branch, ok := r.catalog.Branch(txn.BranchID); ok {
		line(center(branch.Name))
		line(center(branch.Address))
		line(center(branch.Phone))
	} else {
		line(center("Branch " + txn.BranchID))
	}
	line(heavyRule)

	line("Receipt:  " + txn.ReceiptNumber)
	line("Date:     " + txn.Timestamp.Format("2006-01-02 15:04:05"))
	line("Cashier:  " + r.cashierName(txn.CashierID))
	if txn.CustomerID != "" {
		line("Customer: " + r.customerName(txn.CustomerID))
	}
	line(lightRule)

	for _, item := range txn.Items {
		line(row(fmt.Sprintf("%d x %s", item.Quantity, item.Name), r.money(item.Subtotal)))
		if item.Discount > 0 {
			line(row("    discount", "-"+r.money(item.Discount)))
		}
	}
	line(lightRule)

	line(row("Subtotal", r.money(txn.Subtotal)))
	if txn.Discount > 0 {
		line(row("Discount", "-"+r.money(txn.Discount)))
	}
	line(row("Tax", r.money(txn.Tax)))
	line(row("TOTAL", r.money(txn.Total)))
	line(lightRule)

	line(row(fmt.Sprintf("Paid (%s)", txn.PaymentMethod), r.money(txn.PaymentAmount)))
	if txn.ChangeAmount > 0 {
		line(row("Change", r.money(txn.ChangeAmount)))
	}
	line(heavyRule)
	line(center("Thank you for visiting!"))

	return b.String()
}

func (r *Renderer) cashierName(id string) string {
	for _, u := range r.catalog.Users {
		if u.ID == id {
			return u.Name
		}
	}
	return id
}

func (r *Renderer) customerName(id string) string {
	if c, ok := r.catalog.Customer(id); ok {
		return c.Name
	}
	return id
}
