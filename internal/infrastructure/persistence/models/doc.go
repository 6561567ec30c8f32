// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel
//   - columns.go: embedded column groups (address, totals)
//   - identity.go: users and their address book
//   - catalog.go: products, categories, subcategories, vendors
//   - cart.go: carts and cart items
//   - order.go: orders and order items
//   - outbox.go: outbox pattern model for event delivery
package models
