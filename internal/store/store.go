// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/abgdnv/productcache/internal/product"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
// Every operation is atomic per id.
type ProductStore interface {
	// Create persists a product without an id and returns it with the store-assigned id.
	Create(ctx context.Context, p product.Product) (product.Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (product.Product, error)

	// ExistsByID reports whether a product with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Save replaces the name and price of an existing product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Save(ctx context.Context, p product.Product) (product.Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}
