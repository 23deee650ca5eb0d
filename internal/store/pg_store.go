package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/abgdnv/productcache/internal/product"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	createProduct = `INSERT INTO products (name, price)
VALUES ($1, $2)
RETURNING id, name, price::text`

	findProductByID = `SELECT id, name, price::text
FROM products
WHERE id = $1`

	existsProductByID = `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`

	saveProduct = `UPDATE products
SET name = $2, price = $3, updated_at = now()
WHERE id = $1
RETURNING id, name, price::text`

	deleteProductByID = `DELETE FROM products WHERE id = $1`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// Create adds a new product to the system.
// Returns an error if the product cannot be created.
func (p *PgStore) Create(ctx context.Context, in product.Product) (product.Product, error) {
	created, err := scanProduct(p.db.QueryRow(ctx, createProduct, in.Name, in.Price.String()))
	if err != nil {
		return product.Product{}, perrors.NewStoreError("create", err)
	}
	return created, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (product.Product, error) {
	found, err := scanProduct(p.db.QueryRow(ctx, findProductByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, perrors.ErrProductNotFound
		}
		return product.Product{}, perrors.NewStoreError("find by id", err)
	}
	return found, nil
}

func (p *PgStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := p.db.QueryRow(ctx, existsProductByID, id).Scan(&exists); err != nil {
		return false, perrors.NewStoreError("exists by id", err)
	}
	return exists, nil
}

// Save modifies an existing product's details.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Save(ctx context.Context, in product.Product) (product.Product, error) {
	saved, err := scanProduct(p.db.QueryRow(ctx, saveProduct, in.ID, in.Name, in.Price.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, perrors.ErrProductNotFound
		}
		return product.Product{}, perrors.NewStoreError("save", err)
	}
	return saved, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx, deleteProductByID, id)
	if err != nil {
		return perrors.NewStoreError("delete by id", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Ping checks the connection to the database.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// scanProduct reads id, name and the textual price of a single row.
func scanProduct(row pgx.Row) (product.Product, error) {
	var (
		out   product.Product
		price string
	)
	if err := row.Scan(&out.ID, &out.Name, &price); err != nil {
		return product.Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	out.Price = d
	return out, nil
}
