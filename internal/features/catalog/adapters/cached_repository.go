package adapter

import (
	"context"
	"time"

	"storefront-gateway/internal/core/cache"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/features/catalog/domain"
	"storefront-gateway/internal/features/catalog/ports"

	"go.uber.org/zap"
)

const (
	productsKey   = "catalog:products"
	categoriesKey = "catalog:categories"
)

func productKey(id string) string  { return "catalog:product:" + id }
func categoryKey(id string) string { return "catalog:category:" + id }

// CachedRepository is a read-through Redis cache in front of a CatalogReader.
// Cache failures are logged and the read falls back to the origin.
type CachedRepository struct {
	origin ports.CatalogReader
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedRepository creates a new CachedRepository.
func NewCachedRepository(origin ports.CatalogReader, c cache.Cache, ttl time.Duration) *CachedRepository {
	return &CachedRepository{origin: origin, cache: c, ttl: ttl}
}

// ListProducts returns the cached product listing.
func (r *CachedRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := readThrough(ctx, r, productsKey, func() (*[]domain.Product, error) {
		list, err := r.origin.ListProducts(ctx)
		return &list, err
	})
	if err != nil {
		return nil, err
	}
	return *products, nil
}

// GetProduct returns the cached product.
func (r *CachedRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return readThrough(ctx, r, productKey(id), func() (*domain.Product, error) {
		return r.origin.GetProduct(ctx, id)
	})
}

// ListCategories returns the cached category listing.
func (r *CachedRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := readThrough(ctx, r, categoriesKey, func() (*[]domain.Category, error) {
		list, err := r.origin.ListCategories(ctx)
		return &list, err
	})
	if err != nil {
		return nil, err
	}
	return *categories, nil
}

// GetCategory returns the cached category with its products.
func (r *CachedRepository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return readThrough(ctx, r, categoryKey(id), func() (*domain.Category, error) {
		return r.origin.GetCategory(ctx, id)
	})
}

// Invalidate drops both listings and the given detail entries.
func (r *CachedRepository) Invalidate(ctx context.Context, productIDs []string, categoryIDs []string) {
	keys := []string{productsKey, categoriesKey}
	for _, id := range productIDs {
		if id != "" {
			keys = append(keys, productKey(id))
		}
	}
	for _, id := range categoryIDs {
		if id != "" {
			keys = append(keys, categoryKey(id))
		}
	}

	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.Ctx(ctx).Warn("Failed to invalidate catalog cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

func readThrough[T any](ctx context.Context, r *CachedRepository, key string, load func() (*T, error)) (*T, error) {
	cached, ok, err := cache.GetJSON[T](ctx, r.cache, key)
	if err != nil {
		logger.Ctx(ctx).Warn("Catalog cache read failed, using backend", zap.String("key", key), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	fresh, err := load()
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, r.cache, key, fresh, r.ttl); err != nil {
		logger.Ctx(ctx).Warn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}
