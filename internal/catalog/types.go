package catalog

import "time"

// Role identifies what a user is allowed to do. Roles are coarse: the
// section policy in internal/auth maps each role to the screens it may
// open.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

// TableStatus is the occupancy state of a dining table.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
	TableCleaning  TableStatus = "cleaning"
)

// User is an operator account. Passwords are plaintext demo stubs; this
// core has no real credential storage.
type User struct {
	ID        string    `yaml:"id"`
	Email     string    `yaml:"email"`
	Password  string    `yaml:"password"`
	Name      string    `yaml:"name"`
	Role      Role      `yaml:"role"`
	BranchID  string    `yaml:"branch_id"`
	IsActive  bool      `yaml:"is_active"`
	CreatedAt time.Time `yaml:"created_at"`
}

// BranchSettings holds per-branch operational configuration.
// TaxRate is a fraction (0.085 = 8.5%).
type BranchSettings struct {
	TaxRate    float64 `yaml:"tax_rate"`
	Currency   string  `yaml:"currency"`
	Timezone   string  `yaml:"timezone"`
	AcceptCash bool    `yaml:"accept_cash"`
	AcceptCard bool    `yaml:"accept_card"`
}

// Branch is a physical store location.
type Branch struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Address  string         `yaml:"address"`
	Phone    string         `yaml:"phone"`
	Email    string         `yaml:"email"`
	IsActive bool           `yaml:"is_active"`
	Settings BranchSettings `yaml:"settings"`
}

// Product is a sellable catalog entry. Price is the unit sale price;
// Cost is the unit cost and plays no part in pricing. Stock levels are
// reference data only - this core never mutates them.
type Product struct {
	ID          string    `yaml:"id"`
	SKU         string    `yaml:"sku"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Category    string    `yaml:"category"`
	Price       float64   `yaml:"price"`
	Cost        float64   `yaml:"cost"`
	Stock       int       `yaml:"stock"`
	MinStock    int       `yaml:"min_stock"`
	MaxStock    int       `yaml:"max_stock"`
	Unit        string    `yaml:"unit"`
	Barcode     string    `yaml:"barcode,omitempty"`
	IsActive    bool      `yaml:"is_active"`
	BranchID    string    `yaml:"branch_id,omitempty"` // empty means all branches
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
}

// LowOnStock reports whether the product is at or below its reorder
// threshold.
func (p Product) LowOnStock() bool {
	return p.Stock <= p.MinStock
}

// Table is a dining table. CurrentOrderID is a back-reference, not
// ownership: the order lives in the store.
type Table struct {
	ID             string      `yaml:"id"`
	Number         int         `yaml:"number"`
	Name           string      `yaml:"name"`
	Capacity       int         `yaml:"capacity"`
	Status         TableStatus `yaml:"status"`
	CurrentOrderID string      `yaml:"current_order_id,omitempty"`
	BranchID       string      `yaml:"branch_id"`
	Section        string      `yaml:"section,omitempty"`
	IsActive       bool        `yaml:"is_active"`
}

// Available reports whether the table may be selected for a new
// dine-in order.
func (t Table) Available() bool {
	return t.Status == TableAvailable
}

// Customer is a loyalty record. The aggregates (points, spend, visits)
// are read-only reference data in this core; a real system would update
// them alongside transaction creation.
type Customer struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Email         string    `yaml:"email,omitempty"`
	Phone         string    `yaml:"phone,omitempty"`
	LoyaltyPoints int       `yaml:"loyalty_points"`
	TotalSpent    float64   `yaml:"total_spent"`
	VisitCount    int       `yaml:"visit_count"`
	LastVisit     time.Time `yaml:"last_visit,omitempty"`
	CreatedAt     time.Time `yaml:"created_at"`
}
