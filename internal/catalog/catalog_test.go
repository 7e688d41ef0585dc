package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultSeed(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Users, 3)
	assert.Len(t, c.Branches, 2)
	assert.Len(t, c.Products, 8)
	assert.Len(t, c.Customers, 2)
	assert.Len(t, c.Tables, 6)
}

func TestCatalog_Lookups(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	p, ok := c.Product("1")
	require.True(t, ok)
	assert.Equal(t, "COFFEE-001", p.SKU)
	assert.Equal(t, 4.99, p.Price)

	p, ok = c.ProductBySKU("CROISSANT-001")
	require.True(t, ok)
	assert.Equal(t, "Butter Croissant", p.Name)

	_, ok = c.Product("does-not-exist")
	assert.False(t, ok)

	tbl, ok := c.Table("2")
	require.True(t, ok)
	assert.Equal(t, TableOccupied, tbl.Status)
	assert.False(t, tbl.Available())

	u, ok := c.UserByEmail("cashier@pos.com")
	require.True(t, ok)
	assert.Equal(t, RoleCashier, u.Role)

	b, ok := c.Branch("1")
	require.True(t, ok)
	assert.Equal(t, 0.085, b.Settings.TaxRate)
}

func TestCatalog_Categories(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	cats := c.Categories()
	assert.Equal(t, []string{"Appetizers", "Desserts", "Drinks", "Food", "Shisha"}, cats)

	drinks := c.ProductsInCategory("Drinks")
	require.Len(t, drinks, 3)
	for _, p := range drinks {
		assert.Equal(t, "Drinks", p.Category)
	}
}

func TestCatalog_LowStock(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	low := c.LowStock()
	// Orange juice sits at 8 with a reorder threshold of 10.
	require.Len(t, low, 1)
	assert.Equal(t, "JUICE-001", low[0].SKU)
}

func TestCatalog_AvailableTables(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	avail := c.AvailableTables()
	require.Len(t, avail, 3)
	for _, tbl := range avail {
		assert.Equal(t, TableAvailable, tbl.Status)
	}
}

func TestParse_RejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		seed string
	}{
		{
			name: "negative stock",
			seed: `
products:
  - id: "1"
    sku: X-001
    name: Broken
    price: 1.00
    cost: 0.50
    stock: -4
    min_stock: 0
    max_stock: 10
`,
		},
		{
			name: "unknown table status",
			seed: `
tables:
  - id: "1"
    number: 1
    capacity: 4
    status: haunted
`,
		},
		{
			name: "unknown role",
			seed: `
users:
  - id: "1"
    email: x@pos.com
    password: pw
    role: superuser
`,
		},
		{
			name: "tax rate out of range",
			seed: `
branches:
  - id: "1"
    name: Main
    settings:
      tax_rate: 1.5
      currency: USD
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.seed))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid seed")
		})
	}
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	products := []Product{
		{ID: "1", SKU: "A-001", Name: "a"},
		{ID: "1", SKU: "B-001", Name: "b"},
	}
	_, err := New(nil, nil, products, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate product id")
}

func TestProduct_LowOnStock(t *testing.T) {
	assert.True(t, Product{Stock: 5, MinStock: 5}.LowOnStock())
	assert.True(t, Product{Stock: 2, MinStock: 5}.LowOnStock())
	assert.False(t, Product{Stock: 6, MinStock: 5}.LowOnStock())
}
