// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags or infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain / FromDomain convert between domain entities and persistence models
// 4. Repositories read and write persistence models only
//
// Structure:
// - base.go: shared columns (BaseModel, AggregateModel)
// - catalog.go: categories, products, boutique products, brands, boutiques, likes
// - identity.go: users
// - trade.go: carts and orders
package models
