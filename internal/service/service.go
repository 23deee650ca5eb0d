// Package service provides the implementation of product-related business logic.
// Every operation keeps the product cache consistent with the store (cache-aside):
// reads go to the cache first, writes go to the store first and then refresh or evict the cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	perrors "github.com/abgdnv/productcache/internal/errors"
	"github.com/abgdnv/productcache/internal/product"
	"github.com/abgdnv/productcache/internal/store"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "product-service"

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier, from the cache when present.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create adds a new product to the system and caches it under the assigned ID.
	// Returns ErrValidation if the product is invalid.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update modifies an existing product's name and price and overwrites its cache entry.
	// Returns ErrValidation if the ID is missing, ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, product ProductDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID and evicts it from the cache.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ProductCache is the cache view kept consistent with the store.
type ProductCache interface {
	Get(ctx context.Context, id int64) (product.Product, bool, error)
	Put(ctx context.Context, p product.Product) error
	Evict(ctx context.Context, id int64) error
}

// Service implements ProductService on top of a store and a cache.
type Service struct {
	store  store.ProductStore
	cache  ProductCache
	logger *slog.Logger
	tracer trace.Tracer

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	cacheErrors metric.Int64Counter
}

// NewService creates a new instance of ProductService.
func NewService(productStore store.ProductStore, productCache ProductCache, logger *slog.Logger) *Service {
	meter := otel.Meter(instrumentationName)
	return &Service{
		store:       productStore,
		cache:       productCache,
		logger:      logger.With("component", "service"),
		tracer:      otel.Tracer(instrumentationName),
		cacheHits:   mustCounter(meter, "product_cache_hits", "Reads served from the cache"),
		cacheMisses: mustCounter(meter, "product_cache_misses", "Reads that fell through to the store"),
		cacheErrors: mustCounter(meter, "product_cache_errors", "Failed cache operations"),
	}
}

func mustCounter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(fmt.Sprintf("failed to create %s counter: %v", name, err))
	}
	return counter
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name  string          `json:"name"  validate:"notblank,max=255"`
	Price decimal.Decimal `json:"price" validate:"decimal_gt=0,decimal_max_places=2,decimal_lt=100000000000000000"`
}

// ProductDto represents the data transfer object for a product.
// ID is absent in requests only when the caller forgot it.
type ProductDto struct {
	ID    *int64          `json:"id,omitempty" validate:"omitempty,gt=0"`
	Name  string          `json:"name"         validate:"notblank,max=255"`
	Price decimal.Decimal `json:"price"        validate:"decimal_gt=0,decimal_max_places=2,decimal_lt=100000000000000000"`
}

// FindByID returns the cached product on a hit without touching the store.
// On a miss it reads the store and populates the cache. Cache failures never fail the read.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.FindByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	cached, ok, err := s.cache.Get(ctx, id)
	switch {
	case err != nil:
		s.cacheFailure(ctx, "get", id, err)
	case ok:
		s.cacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return toDto(cached), nil
	}
	s.cacheMisses.Add(ctx, 1)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	found, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, perrors.NewNotFoundError(id)
		}
		return nil, s.fail(span, storeFailure(fmt.Sprintf("fetch product by ID %d", id), err))
	}

	if err := s.cache.Put(ctx, found); err != nil {
		s.cacheFailure(ctx, "put", id, err)
	}
	return toDto(found), nil
}

// Create validates and persists a new product, then caches it under the store-assigned ID.
func (s *Service) Create(ctx context.Context, dto ProductCreateDto) (*ProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Create")
	defer span.End()

	p, err := product.New(dto.Name, dto.Price)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return nil, s.fail(span, storeFailure("create product", err))
	}
	span.SetAttributes(attribute.Int64("product.id", created.ID))

	if err := s.cache.Put(ctx, created); err != nil {
		s.cacheFailure(ctx, "put", created.ID, err)
	}
	return toDto(created), nil
}

// Update applies name and price onto the stored product and overwrites the cache entry.
// Update never creates a product.
func (s *Service) Update(ctx context.Context, dto ProductDto) (*ProductDto, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.Update")
	defer span.End()

	if dto.ID == nil {
		return nil, perrors.NewValidationError("id", "id required for update")
	}
	id := *dto.ID
	if id <= 0 {
		return nil, perrors.NewValidationError("id", "id must be greater than 0")
	}
	if err := product.Validate(dto.Name, dto.Price); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("product.id", id))

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, perrors.NewNotFoundError(id)
		}
		return nil, s.fail(span, storeFailure(fmt.Sprintf("fetch product by ID %d", id), err))
	}

	changed, err := current.Apply(dto.Name, dto.Price)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Save(ctx, changed)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return nil, perrors.NewNotFoundError(id)
		}
		return nil, s.fail(span, storeFailure(fmt.Sprintf("update product with ID %d", id), err))
	}

	if err := s.cache.Put(ctx, saved); err != nil {
		s.cacheFailure(ctx, "put", id, err)
		// the old value must not outlive the update
		if err := s.cache.Evict(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "Failed to evict stale product after update", "ID", id, "error", err)
		}
	}
	return toDto(saved), nil
}

// DeleteByID removes the product from the store and then evicts its cache entry.
// When the store delete fails the cache is left untouched.
// An eviction failure is reported as ErrCache: the product is gone from the store
// but may still be served from the cache until its TTL expires.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return s.fail(span, storeFailure(fmt.Sprintf("check product with ID %d", id), err))
	}
	if !exists {
		return perrors.NewNotFoundError(id)
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) {
			return perrors.NewNotFoundError(id)
		}
		return s.fail(span, storeFailure(fmt.Sprintf("delete product with ID %d", id), err))
	}

	if err := s.cache.Evict(ctx, id); err != nil {
		s.cacheErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "evict")))
		s.logger.ErrorContext(ctx, "Product deleted but cache eviction failed", "ID", id, "error", err)
		return s.fail(span, fmt.Errorf("failed to evict product with ID %d: %w", id, err))
	}
	return nil
}

// cacheFailure records a non-fatal cache error.
func (s *Service) cacheFailure(ctx context.Context, op string, id int64, err error) {
	s.cacheErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	s.logger.WarnContext(ctx, "Cache operation failed", "op", op, "ID", id, "error", err)
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// storeFailure makes sure a failed store call is reported as ErrStore.
func storeFailure(op string, err error) error {
	if errors.Is(err, perrors.ErrStore) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return perrors.NewStoreError(op, err)
}

// toDto converts a product to a ProductDto.
func toDto(p product.Product) *ProductDto {
	id := p.ID
	return &ProductDto{
		ID:    &id,
		Name:  p.Name,
		Price: p.Price,
	}
}
