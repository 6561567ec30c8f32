package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDetails(categoryID uuid.UUID, subcategoryID *uuid.UUID) ProductDetails {
	return ProductDetails{
		Name:          "Steel Bottle",
		Price:         decimal.NewFromInt(499),
		Images:        []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"},
		Inventory:     10,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
	}
}

func approvedVendor(t *testing.T) *Vendor {
	v, err := NewVendor(uuid.New(), "Acme Store")
	require.NoError(t, err)
	v.Approve()
	return v
}

func TestVendor_EnsureApproved(t *testing.T) {
	v, err := NewVendor(uuid.New(), "Acme Store")
	require.NoError(t, err)

	err = v.EnsureApproved("add products")
	require.Error(t, err)
	assert.Equal(t, "VENDOR_NOT_APPROVED", shared.ErrorCode(err))
	assert.Equal(t, "Only approved vendors can add products. Your current status is: PENDING", err.Error())

	v.Approve()
	assert.NoError(t, v.EnsureApproved("add products"))
}

func TestNewProduct(t *testing.T) {
	vendor := approvedVendor(t)

	t.Run("valid product raises created event", func(t *testing.T) {
		p, err := NewProduct(vendor.ID, testDetails(uuid.New(), nil))
		require.NoError(t, err)
		assert.True(t, vendor.Owns(p))
		assert.Equal(t, "https://cdn.example/a.jpg", p.FirstImage())
		require.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, p.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects negative price and missing category", func(t *testing.T) {
		d := testDetails(uuid.New(), nil)
		d.Price = decimal.NewFromInt(-1)
		_, err := NewProduct(vendor.ID, d)
		assert.Error(t, err)

		_, err = NewProduct(vendor.ID, testDetails(uuid.Nil, nil))
		assert.Error(t, err)
	})
}

func TestProduct_Snapshot(t *testing.T) {
	vendor := approvedVendor(t)
	p, err := NewProduct(vendor.ID, testDetails(uuid.New(), nil))
	require.NoError(t, err)

	snap := p.Snapshot(vendor)
	assert.Equal(t, p.ID, snap.ProductID)
	assert.Equal(t, "Acme Store", snap.VendorName)
	assert.Equal(t, "https://cdn.example/a.jpg", snap.Image)
	assert.True(t, snap.UnitPrice.Equal(decimal.NewFromInt(499)))

	p.Images = nil
	assert.Empty(t, p.Snapshot(vendor).Image)
}

func TestProduct_UpdateReturnsPreviousPlacement(t *testing.T) {
	oldCat, newCat := uuid.New(), uuid.New()
	sub := uuid.New()
	p, err := NewProduct(uuid.New(), testDetails(oldCat, &sub))
	require.NoError(t, err)

	before, err := p.Update(testDetails(newCat, nil))
	require.NoError(t, err)
	assert.Equal(t, oldCat, before.CategoryID)
	require.NotNil(t, before.SubcategoryID)
	assert.Equal(t, sub, *before.SubcategoryID)
	assert.Nil(t, p.SubcategoryID)
}

func TestAdjustmentsForMove(t *testing.T) {
	catA, catB := uuid.New(), uuid.New()
	subX, subY := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		before Placement
		after  Placement
		want   []CounterAdjustment
	}{
		{
			name:   "no change",
			before: Placement{CategoryID: catA, SubcategoryID: &subX},
			after:  Placement{CategoryID: catA, SubcategoryID: &subX},
			want:   nil,
		},
		{
			name:   "category change only",
			before: Placement{CategoryID: catA},
			after:  Placement{CategoryID: catB},
			want: []CounterAdjustment{
				{Kind: CounterCategory, ID: catA, Delta: -1},
				{Kind: CounterCategory, ID: catB, Delta: 1},
			},
		},
		{
			name:   "none to subcategory",
			before: Placement{CategoryID: catA},
			after:  Placement{CategoryID: catA, SubcategoryID: &subX},
			want:   []CounterAdjustment{{Kind: CounterSubcategory, ID: subX, Delta: 1}},
		},
		{
			name:   "subcategory to none",
			before: Placement{CategoryID: catA, SubcategoryID: &subX},
			after:  Placement{CategoryID: catA},
			want:   []CounterAdjustment{{Kind: CounterSubcategory, ID: subX, Delta: -1}},
		},
		{
			name:   "subcategory swap",
			before: Placement{CategoryID: catA, SubcategoryID: &subX},
			after:  Placement{CategoryID: catA, SubcategoryID: &subY},
			want: []CounterAdjustment{
				{Kind: CounterSubcategory, ID: subX, Delta: -1},
				{Kind: CounterSubcategory, ID: subY, Delta: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustmentsForMove(tt.before, tt.after))
		})
	}

	t.Run("vendor counter is never touched", func(t *testing.T) {
		for _, a := range AdjustmentsForMove(Placement{CategoryID: catA, SubcategoryID: &subX}, Placement{CategoryID: catB, SubcategoryID: &subY}) {
			assert.NotEqual(t, CounterVendor, a.Kind)
		}
	})
}

func TestCounterConservation(t *testing.T) {
	category, err := NewCategory("Home & Kitchen")
	require.NoError(t, err)
	assert.Equal(t, "home-kitchen", category.Slug)
	vendor := approvedVendor(t)

	apply := func(adjs []CounterAdjustment) {
		for _, a := range adjs {
			switch a.Kind {
			case CounterCategory:
				require.NoError(t, category.AdjustProductCount(a.Delta))
			case CounterVendor:
				require.NoError(t, vendor.AdjustProductCount(a.Delta))
			}
		}
	}

	var products []*Product
	for i := 0; i < 7; i++ {
		p, err := NewProduct(vendor.ID, testDetails(category.ID, nil))
		require.NoError(t, err)
		products = append(products, p)
		apply(AdjustmentsForCreate(p))
	}
	for _, p := range products[:3] {
		apply(AdjustmentsForDelete(p))
	}

	assert.Equal(t, 4, category.ProductCount)
	assert.Equal(t, 4, vendor.ProductCount)
}

func TestAdjustProductCount_RejectsUnderflow(t *testing.T) {
	sub, err := NewSubcategory(uuid.New(), "Bottles")
	require.NoError(t, err)

	err = sub.AdjustProductCount(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCounterUnderflow)
	assert.Equal(t, 0, sub.ProductCount)
}
