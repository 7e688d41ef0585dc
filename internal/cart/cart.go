// Package cart implements the in-progress order a cashier builds up
// before checkout: priced line items keyed by product, plus the
// customer and table selected for the sale.
//
// Pricing rules: a line's subtotal is unitPrice x quantity - discount,
// and is recomputed through the mutation methods only. Cart totals are
// derived on every Totals call, never cached.
package cart

import "github.com/roach88/till/internal/catalog"

// DefaultTaxRate is the flat sales tax applied when the branch does
// not override it (8.5%).
const DefaultTaxRate = 0.085

// LineItem is one product's position in a cart. UnitPrice is a
// snapshot of the product price at add time; later catalog changes do
// not reprice open carts. Discount is an absolute amount per line.
type LineItem struct {
	ProductID string  `json:"product_id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
	Subtotal  float64 `json:"subtotal"`
}

func (li *LineItem) recompute() {
	li.Subtotal = li.UnitPrice*float64(li.Quantity) - li.Discount
}

// Totals is the derived pricing summary of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Cart is an insertion-ordered set of line items, at most one per
// product. The zero value is an empty cart ready for use.
type Cart struct {
	items      []LineItem
	CustomerID string
	TableID    string
}

// AddProduct adds one unit of the product. If the product is already
// in the cart its quantity is incremented instead of a second line
// being appended.
func (c *Cart) AddProduct(p catalog.Product) {
	for i := range c.items {
		if c.items[i].ProductID == p.ID {
			c.items[i].Quantity++
			c.items[i].recompute()
			return
		}
	}
	li := LineItem{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Quantity:  1,
		UnitPrice: p.Price,
	}
	li.recompute()
	c.items = append(c.items, li)
}

// SetQuantity sets the quantity of the product's line. A quantity of
// zero or less removes the line. Unknown product ids are a no-op.
func (c *Cart) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = qty
			c.items[i].recompute()
			return
		}
	}
}

// SetDiscount sets the absolute discount on the product's line.
// Negative discounts are clamped to zero. Unknown product ids are a
// no-op.
func (c *Cart) SetDiscount(productID string, amount float64) {
	if amount < 0 {
		amount = 0
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Discount = amount
			c.items[i].recompute()
			return
		}
	}
}

// Remove deletes the product's line if present.
func (c *Cart) Remove(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart and drops any customer and table selection.
func (c *Cart) Clear() {
	c.items = nil
	c.CustomerID = ""
	c.TableID = ""
}

// Len returns the number of lines (not units) in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the cart's lines in insertion order. The
// copy keeps callers from mutating line state behind the cart's back.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Totals derives the pricing summary at the given tax rate. An empty
// cart yields all zeros.
func (c *Cart) Totals(taxRate float64) Totals {
	var t Totals
	for i := range c.items {
		t.Subtotal += c.items[i].Subtotal
		t.Discount += c.items[i].Discount
	}
	t.Tax = t.Subtotal * taxRate
	t.Total = t.Subtotal + t.Tax
	return t
}
