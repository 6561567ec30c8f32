package models

// All returns every persistence model in dependency order. The SQL migrations
// are the source of truth for production schemas; this list drives AutoMigrate
// in tests and local SQLite runs.
func All() []any {
	return []any{
		&UserModel{},
		&UserAddressModel{},
		&VendorModel{},
		&CategoryModel{},
		&SubcategoryModel{},
		&ProductModel{},
		&CartModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&OutboxEntryModel{},
	}
}
