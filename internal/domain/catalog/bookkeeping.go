package catalog

import "github.com/google/uuid"

// CounterKind names the entity whose product counter is adjusted
type CounterKind string

const (
	CounterVendor      CounterKind = "VENDOR"
	CounterCategory    CounterKind = "CATEGORY"
	CounterSubcategory CounterKind = "SUBCATEGORY"
)

// CounterAdjustment is a signed change to one product counter
type CounterAdjustment struct {
	Kind  CounterKind
	ID    uuid.UUID
	Delta int
}

// AdjustmentsForCreate returns +1 for the vendor, the category and the subcategory if any
func AdjustmentsForCreate(p *Product) []CounterAdjustment {
	adj := []CounterAdjustment{
		{Kind: CounterVendor, ID: p.VendorID, Delta: 1},
		{Kind: CounterCategory, ID: p.CategoryID, Delta: 1},
	}
	if p.SubcategoryID != nil {
		adj = append(adj, CounterAdjustment{Kind: CounterSubcategory, ID: *p.SubcategoryID, Delta: 1})
	}
	return adj
}

// AdjustmentsForDelete returns -1 for the vendor, the category and the subcategory if any
func AdjustmentsForDelete(p *Product) []CounterAdjustment {
	adj := []CounterAdjustment{
		{Kind: CounterVendor, ID: p.VendorID, Delta: -1},
		{Kind: CounterCategory, ID: p.CategoryID, Delta: -1},
	}
	if p.SubcategoryID != nil {
		adj = append(adj, CounterAdjustment{Kind: CounterSubcategory, ID: *p.SubcategoryID, Delta: -1})
	}
	return adj
}

// AdjustmentsForMove returns the counter changes for moving a product between
// placements. Category and subcategory are handled independently and the vendor
// counter never changes on update.
func AdjustmentsForMove(before, after Placement) []CounterAdjustment {
	var adj []CounterAdjustment
	if before.CategoryID != after.CategoryID {
		adj = append(adj,
			CounterAdjustment{Kind: CounterCategory, ID: before.CategoryID, Delta: -1},
			CounterAdjustment{Kind: CounterCategory, ID: after.CategoryID, Delta: 1},
		)
	}
	if !sameID(before.SubcategoryID, after.SubcategoryID) {
		if before.SubcategoryID != nil {
			adj = append(adj, CounterAdjustment{Kind: CounterSubcategory, ID: *before.SubcategoryID, Delta: -1})
		}
		if after.SubcategoryID != nil {
			adj = append(adj, CounterAdjustment{Kind: CounterSubcategory, ID: *after.SubcategoryID, Delta: 1})
		}
	}
	return adj
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
