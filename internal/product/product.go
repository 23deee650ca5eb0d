// Package product holds the Product resource model and its validation rules.
package product

import (
	"strings"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// prices are rendered as JSON numbers: {"price": 9.99}
	decimal.MarshalJSONWithoutQuotes = true
}

// PriceScale is the number of fractional digits a price may carry.
const PriceScale = 2

// MaxPrice is the exclusive upper bound of a price, the range of a NUMERIC(19,2) column.
var MaxPrice = decimal.New(1, 17)

// Product is an immutable value. A zero ID means the store has not assigned one yet.
type Product struct {
	ID    int64           `json:"id,omitempty"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// New validates name and price and returns a product without an ID.
func New(name string, price decimal.Decimal) (Product, error) {
	if err := Validate(name, price); err != nil {
		return Product{}, err
	}
	return Product{Name: name, Price: price}, nil
}

// Validate reports the first violated constraint as a *errors.ValidationError.
func Validate(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return perrors.NewValidationError("name", "name must not be blank")
	}
	if !price.IsPositive() {
		return perrors.NewValidationError("price", "price must be greater than 0")
	}
	if !price.Equal(price.Truncate(PriceScale)) {
		return perrors.NewValidationError("price", "price must have at most 2 decimal places")
	}
	if !price.LessThan(MaxPrice) {
		return perrors.NewValidationError("price", "price must be less than "+MaxPrice.String())
	}
	return nil
}

// HasID reports whether the store has assigned an identifier.
func (p Product) HasID() bool {
	return p.ID > 0
}

// WithID returns a copy of p carrying the store-assigned id.
func (p Product) WithID(id int64) Product {
	p.ID = id
	return p
}

// Apply returns a copy of p with name and price replaced. The id is never altered.
func (p Product) Apply(name string, price decimal.Decimal) (Product, error) {
	if err := Validate(name, price); err != nil {
		return Product{}, err
	}
	p.Name = name
	p.Price = price
	return p, nil
}

// Equal compares products by value, treating 12.5 and 12.50 as the same price.
func (p Product) Equal(other Product) bool {
	return p.ID == other.ID && p.Name == other.Name && p.Price.Equal(other.Price)
}
