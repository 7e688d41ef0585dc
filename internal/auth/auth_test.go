package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/till/internal/catalog"
)

func seedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func TestAuthenticate(t *testing.T) {
	cat := seedCatalog(t)

	u, err := Authenticate(cat, "cashier@pos.com", "password")
	require.NoError(t, err)
	assert.Equal(t, catalog.RoleCashier, u.Role)
	assert.Equal(t, "John Cashier", u.Name)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	cat := seedCatalog(t)

	tests := []struct {
		name, email, password string
	}{
		{"unknown email", "nobody@pos.com", "password"},
		{"wrong password", "cashier@pos.com", "hunter2"},
		{"empty password", "cashier@pos.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Authenticate(cat, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthenticate_InactiveUserRejected(t *testing.T) {
	users := []catalog.User{{
		ID: "9", Email: "gone@pos.com", Password: "password",
		Role: catalog.RoleCashier, IsActive: false,
	}}
	cat, err := catalog.New(users, nil, nil, nil, nil)
	require.NoError(t, err)

	_, err = Authenticate(cat, "gone@pos.com", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "inactive must look like bad credentials")
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		role    catalog.Role
		section Section
		want    bool
	}{
		{catalog.RoleAdmin, SectionBranches, true},
		{catalog.RoleAdmin, SectionPOS, true},
		{catalog.RoleManager, SectionReports, true},
		{catalog.RoleManager, SectionBranches, false},
		{catalog.RoleCashier, SectionPOS, true},
		{catalog.RoleCashier, SectionReports, false},
		{catalog.RoleCashier, SectionUsers, false},
		{catalog.Role("intern"), SectionDashboard, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.role, tt.section),
			"%s / %s", tt.role, tt.section)
	}
}

func TestSections(t *testing.T) {
	assert.Len(t, Sections(catalog.RoleAdmin), 9)

	manager := Sections(catalog.RoleManager)
	assert.Len(t, manager, 8)
	assert.NotContains(t, manager, SectionBranches)

	cashier := Sections(catalog.RoleCashier)
	assert.Equal(t, []Section{SectionDashboard, SectionPOS, SectionOrders, SectionCustomers}, cashier)

	assert.Empty(t, Sections(catalog.Role("intern")))
}
