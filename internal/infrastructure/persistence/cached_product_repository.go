package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/catalog"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/infrastructure/cache"
	"github.com/google/uuid"
)

const productCachePrefix = "products:"

// CachedProductRepository decorates a ProductRepository with a read-through
// query cache. Lists are cached briefly, single lookups for longer, and
// searches not at all since their key space is unbounded. Every write
// invalidates the whole product key space. Cached entries are copied on the
// way out so callers can mutate a result without racing other readers.
type CachedProductRepository struct {
	inner     catalog.ProductRepository
	cache     *cache.QueryCache
	listTTL   time.Duration
	singleTTL time.Duration
}

// NewCachedProductRepository wraps a product repository with caching
func NewCachedProductRepository(inner catalog.ProductRepository, queryCache *cache.QueryCache, listTTL, singleTTL time.Duration) *CachedProductRepository {
	return &CachedProductRepository{
		inner:     inner,
		cache:     queryCache,
		listTTL:   listTTL,
		singleTTL: singleTTL,
	}
}

// Save persists a new product and invalidates cached queries
func (r *CachedProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := r.inner.Save(ctx, product); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(productCachePrefix)
	return nil
}

// FindByID returns a cached product or loads it from the inner repository
func (r *CachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	key := productCachePrefix + "id:" + id.String()
	value, err := r.cache.GetOrLoad(ctx, key, r.singleTTL, func(ctx context.Context) (any, error) {
		return r.inner.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return cloneProduct(value.(*catalog.Product)), nil
}

// FindByCode returns a cached product or loads it from the inner repository
func (r *CachedProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	key := productCachePrefix + "code:" + code
	value, err := r.cache.GetOrLoad(ctx, key, r.singleTTL, func(ctx context.Context) (any, error) {
		return r.inner.FindByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return cloneProduct(value.(*catalog.Product)), nil
}

// FindAll returns a cached page of products
func (r *CachedProductRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	key := listKey("all", filter)
	value, err := r.cache.GetOrLoad(ctx, key, r.listTTL, func(ctx context.Context) (any, error) {
		return r.inner.FindAll(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return clonePage(value.(*shared.Paginated[*catalog.Product])), nil
}

// FindActive returns a cached page of active products
func (r *CachedProductRepository) FindActive(ctx context.Context, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	key := listKey("active", filter)
	value, err := r.cache.GetOrLoad(ctx, key, r.listTTL, func(ctx context.Context) (any, error) {
		return r.inner.FindActive(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	return clonePage(value.(*shared.Paginated[*catalog.Product])), nil
}

// Search always goes to the inner repository
func (r *CachedProductRepository) Search(ctx context.Context, query string, filter shared.Filter) (*shared.Paginated[*catalog.Product], error) {
	return r.inner.Search(ctx, query, filter)
}

// FindLowStock always goes to the inner repository so alerts stay current
func (r *CachedProductRepository) FindLowStock(ctx context.Context) ([]*catalog.Product, error) {
	return r.inner.FindLowStock(ctx)
}

// Update persists changes and invalidates cached queries
func (r *CachedProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	if err := r.inner.Update(ctx, product); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(productCachePrefix)
	return nil
}

// Delete removes a product and invalidates cached queries
func (r *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.InvalidatePrefix(productCachePrefix)
	return nil
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func clonePage(page *shared.Paginated[*catalog.Product]) *shared.Paginated[*catalog.Product] {
	if page == nil {
		return nil
	}
	clone := *page
	clone.Items = make([]*catalog.Product, len(page.Items))
	for i, p := range page.Items {
		clone.Items[i] = cloneProduct(p)
	}
	return &clone
}

func listKey(kind string, filter shared.Filter) string {
	return fmt.Sprintf("%slist:%s:%d:%d:%s:%s", productCachePrefix, kind, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
}

var _ catalog.ProductRepository = (*CachedProductRepository)(nil)
