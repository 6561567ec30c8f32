package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/identity"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewUser creates a user with a profile address
func NewUser(t *testing.T, username string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com")
	require.NoError(t, err)
	addr, err := valueobject.NewAddress("12 MG Road", "Bengaluru", "KA", "560001", "India")
	require.NoError(t, err)
	u.SetAddress(addr)
	return u
}

// NewApprovedVendor creates an approved vendor account for a fresh user
func NewApprovedVendor(t *testing.T, storeName string) *catalog.Vendor {
	t.Helper()
	v, err := catalog.NewVendor(uuid.New(), storeName)
	require.NoError(t, err)
	v.Approve()
	return v
}

// NewProduct creates a product of the vendor filed under a fresh category
func NewProduct(t *testing.T, vendor *catalog.Vendor, name, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(vendor.ID, catalog.ProductDetails{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Images:     []string{"https://cdn.example.com/" + name + ".jpg"},
		Inventory:  10,
		CategoryID: uuid.New(),
	})
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}
