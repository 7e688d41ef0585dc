// Package auth is the demo credential check and the role/section
// policy.
//
// This is not security: passwords are plaintext seed data and there are
// no sessions. What the package does take seriously is the policy
// shape. Sections are granted per role through one explicit table, so
// adding a role or section is an edit to a literal, not to scattered
// conditionals.
package auth

import (
	"errors"

	"github.com/roach88/till/internal/catalog"
)

// ErrInvalidCredentials is returned for every failed login. It is
// deliberately generic: unknown email, wrong password and deactivated
// account are indistinguishable to the caller, so a login prompt leaks
// nothing about which accounts exist.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Section is one screen of the application a role may open.
type Section string

const (
	SectionDashboard Section = "dashboard"
	SectionPOS       Section = "pos"
	SectionProducts  Section = "products"
	SectionOrders    Section = "orders"
	SectionCustomers Section = "customers"
	SectionReports   Section = "reports"
	SectionUsers     Section = "users"
	SectionBranches  Section = "branches"
	SectionSettings  Section = "settings"
)

// sections lists every section in display order.
var sections = []Section{
	SectionDashboard,
	SectionPOS,
	SectionProducts,
	SectionOrders,
	SectionCustomers,
	SectionReports,
	SectionUsers,
	SectionBranches,
	SectionSettings,
}

// policy grants sections per role. Admin sees everything, the manager
// everything but branch administration, the cashier only the floor
// screens.
var policy = map[catalog.Role]map[Section]bool{
	catalog.RoleAdmin: {
		SectionDashboard: true,
		SectionPOS:       true,
		SectionProducts:  true,
		SectionOrders:    true,
		SectionCustomers: true,
		SectionReports:   true,
		SectionUsers:     true,
		SectionBranches:  true,
		SectionSettings:  true,
	},
	catalog.RoleManager: {
		SectionDashboard: true,
		SectionPOS:       true,
		SectionProducts:  true,
		SectionOrders:    true,
		SectionCustomers: true,
		SectionReports:   true,
		SectionUsers:     true,
		SectionSettings:  true,
	},
	catalog.RoleCashier: {
		SectionDashboard: true,
		SectionPOS:       true,
		SectionOrders:    true,
		SectionCustomers: true,
	},
}

// Authenticate checks email and password against the catalog's user
// accounts. Inactive accounts fail exactly like wrong credentials.
func Authenticate(c *catalog.Catalog, email, password string) (catalog.User, error) {
	u, ok := c.UserByEmail(email)
	if !ok || !u.IsActive || u.Password != password {
		return catalog.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Allowed reports whether the role may open the section. Unknown roles
// have no grants.
func Allowed(role catalog.Role, section Section) bool {
	return policy[role][section]
}

// Sections returns the sections the role may open, in display order.
func Sections(role catalog.Role) []Section {
	grants := policy[role]
	out := make([]Section, 0, len(grants))
	for _, s := range sections {
		if grants[s] {
			out = append(out, s)
		}
	}
	return out
}
