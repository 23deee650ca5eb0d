package store

import (
	"context"
	"sync"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/abgdnv/productcache/internal/product"
)

// InMemory implements ProductStore using an in-memory map.
type InMemory struct {
	mu       sync.RWMutex
	products map[int64]product.Product
	nextID   int64
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() *InMemory {
	return &InMemory{
		products: make(map[int64]product.Product),
		nextID:   1,
	}
}

// Create stores the product under the next sequential id.
func (s *InMemory) Create(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := p.WithID(s.nextID)
	s.nextID++
	s.products[created.ID] = created

	return created, nil
}

// FindByID retrieves a product by its ID.
func (s *InMemory) FindByID(_ context.Context, id int64) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return product.Product{}, perrors.ErrProductNotFound
	}
	return p, nil
}

func (s *InMemory) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[id]
	return ok, nil
}

// Save replaces an existing product.
func (s *InMemory) Save(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return product.Product{}, perrors.ErrProductNotFound
	}
	s.products[p.ID] = p
	return p, nil
}

// DeleteByID deletes a product by its ID.
func (s *InMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return perrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
