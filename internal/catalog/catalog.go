// Package catalog holds the reference data a point of sale runs
// against: products, tables, customers, branches and operator
// accounts.
//
// Catalog data is read-only to the rest of the core. It is loaded once
// from a YAML seed file (validated against an embedded CUE schema) and
// handed to the pricing, checkout and reporting components. Nothing in
// this package mutates stock levels or loyalty aggregates; a real
// deployment would swap the seed loader for an inventory system.
package catalog

import (
	"fmt"
	"sort"
)

// Catalog is an indexed, immutable snapshot of reference data.
type Catalog struct {
	Users     []User
	Branches  []Branch
	Products  []Product
	Customers []Customer
	Tables    []Table

	productsByID  map[string]int
	productsBySKU map[string]int
	tablesByID    map[string]int
	customersByID map[string]int
	branchesByID  map[string]int
	usersByEmail  map[string]int
}

// New builds a Catalog from raw slices and indexes them by identity.
// Duplicate identifiers are an error: the seed is the single source of
// truth and collisions would make lookups ambiguous.
func New(users []User, branches []Branch, products []Product, customers []Customer, tables []Table) (*Catalog, error) {
	c := &Catalog{
		Users:     users,
		Branches:  branches,
		Products:  products,
		Customers: customers,
		Tables:    tables,

		productsByID:  make(map[string]int, len(products)),
		productsBySKU: make(map[string]int, len(products)),
		tablesByID:    make(map[string]int, len(tables)),
		customersByID: make(map[string]int, len(customers)),
		branchesByID:  make(map[string]int, len(branches)),
		usersByEmail:  make(map[string]int, len(users)),
	}

	for i, p := range products {
		if _, dup := c.productsByID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		if _, dup := c.productsBySKU[p.SKU]; dup {
			return nil, fmt.Errorf("catalog: duplicate product sku %q", p.SKU)
		}
		c.productsByID[p.ID] = i
		c.productsBySKU[p.SKU] = i
	}
	for i, t := range tables {
		if _, dup := c.tablesByID[t.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate table id %q", t.ID)
		}
		c.tablesByID[t.ID] = i
	}
	for i, cu := range customers {
		if _, dup := c.customersByID[cu.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate customer id %q", cu.ID)
		}
		c.customersByID[cu.ID] = i
	}
	for i, b := range branches {
		if _, dup := c.branchesByID[b.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate branch id %q", b.ID)
		}
		c.branchesByID[b.ID] = i
	}
	for i, u := range users {
		if _, dup := c.usersByEmail[u.Email]; dup {
			return nil, fmt.Errorf("catalog: duplicate user email %q", u.Email)
		}
		c.usersByEmail[u.Email] = i
	}

	return c, nil
}

// Product returns the product with the given id, or false if unknown.
func (c *Catalog) Product(id string) (Product, bool) {
	i, ok := c.productsByID[id]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}

// ProductBySKU returns the product with the given SKU, or false if
// unknown.
func (c *Catalog) ProductBySKU(sku string) (Product, bool) {
	i, ok := c.productsBySKU[sku]
	if !ok {
		return Product{}, false
	}
	return c.Products[i], true
}

// Table returns the table with the given id, or false if unknown.
func (c *Catalog) Table(id string) (Table, bool) {
	i, ok := c.tablesByID[id]
	if !ok {
		return Table{}, false
	}
	return c.Tables[i], true
}

// Customer returns the customer with the given id, or false if unknown.
func (c *Catalog) Customer(id string) (Customer, bool) {
	i, ok := c.customersByID[id]
	if !ok {
		return Customer{}, false
	}
	return c.Customers[i], true
}

// Branch returns the branch with the given id, or false if unknown.
func (c *Catalog) Branch(id string) (Branch, bool) {
	i, ok := c.branchesByID[id]
	if !ok {
		return Branch{}, false
	}
	return c.Branches[i], true
}

// UserByEmail returns the user with the given email, or false if
// unknown.
func (c *Catalog) UserByEmail(email string) (User, bool) {
	i, ok := c.usersByEmail[email]
	if !ok {
		return User{}, false
	}
	return c.Users[i], true
}

// Categories returns the distinct categories of active products in
// sorted order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.Products {
		if !p.IsActive || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// ProductsInCategory returns the active products in the given category,
// in seed order.
func (c *Catalog) ProductsInCategory(category string) []Product {
	var out []Product
	for _, p := range c.Products {
		if p.IsActive && p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// LowStock returns the products at or below their reorder threshold.
func (c *Catalog) LowStock() []Product {
	var out []Product
	for _, p := range c.Products {
		if p.LowOnStock() {
			out = append(out, p)
		}
	}
	return out
}

// AvailableTables returns the active tables that may take a new
// dine-in order.
func (c *Catalog) AvailableTables() []Table {
	var out []Table
	for _, t := range c.Tables {
		if t.IsActive && t.Available() {
			out = append(out, t)
		}
	}
	return out
}
