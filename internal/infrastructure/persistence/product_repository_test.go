package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/catalog"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, code, name string, price float64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, decimal.NewFromFloat(price), stock)
	require.NoError(t, err)
	return product
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := mustProduct(t, "COCA-350", "Coca-Cola 350ml", 4.50, 24)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.Code, found.Code)
		assert.True(t, found.Price.Equal(product.Price))
	})

	t.Run("find by code is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "coca-350")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate code", func(t *testing.T) {
		dup := mustProduct(t, "COCA-350", "Duplicate", 1.00, 1)
		err := repo.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormProductRepository_FindActiveAndSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	active := mustProduct(t, "COCA-350", "Coca-Cola 350ml", 4.50, 24)
	inactive := mustProduct(t, "OLD-1", "Discontinued Soda", 2.00, 0)
	inactive.Deactivate()

	require.NoError(t, repo.Save(ctx, active))
	require.NoError(t, repo.Save(ctx, inactive))

	t.Run("find active excludes inactive products", func(t *testing.T) {
		page, err := repo.FindActive(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, active.ID, page.Items[0].ID)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("search matches name", func(t *testing.T) {
		page, err := repo.Search(ctx, "coca", shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, active.ID, page.Items[0].ID)
	})

	t.Run("search matches code", func(t *testing.T) {
		page, err := repo.Search(ctx, "COCA-350", shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	})

	t.Run("search does not match inactive", func(t *testing.T) {
		page, err := repo.Search(ctx, "discontinued", shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("hostile order_by falls back to the default sort", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "price; DROP TABLE products--"

		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})
}

func TestGormProductRepository_FindLowStock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	low := mustProduct(t, "LOW-1", "Low stock", 1.00, 2)
	require.NoError(t, low.SetMinStock(5))
	ok := mustProduct(t, "OK-1", "Plenty", 1.00, 50)
	require.NoError(t, ok.SetMinStock(5))

	require.NoError(t, repo.Save(ctx, low))
	require.NoError(t, repo.Save(ctx, ok))

	products, err := repo.FindLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}

func TestGormProductRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	product := mustProduct(t, "COCA-350", "Coca-Cola 350ml", 4.50, 24)
	require.NoError(t, repo.Save(ctx, product))

	product.DecrementStock(10)
	require.NoError(t, repo.Update(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 14, found.Stock)

	t.Run("updating a missing product fails", func(t *testing.T) {
		ghost := mustProduct(t, "GHOST-1", "Ghost", 1.00, 1)
		assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
	})
}

func TestCachedProductRepository(t *testing.T) {
	db := setupTestDB(t)
	queryCache := cache.NewQueryCache()
	defer queryCache.Stop()

	repo := NewCachedProductRepository(NewGormProductRepository(db), queryCache, time.Minute, 5*time.Minute)
	ctx := context.Background()

	product := mustProduct(t, "COCA-350", "Coca-Cola 350ml", 4.50, 24)
	require.NoError(t, repo.Save(ctx, product))

	t.Run("second lookup is served from cache", func(t *testing.T) {
		_, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		_, err = repo.FindByID(ctx, product.ID)
		require.NoError(t, err)

		hits, _, _ := queryCache.Stats()
		assert.Equal(t, int64(1), hits)
	})

	t.Run("update invalidates cached lookups", func(t *testing.T) {
		product.DecrementStock(4)
		require.NoError(t, repo.Update(ctx, product))

		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, found.Stock)
	})

	t.Run("mutating a result does not touch the cached entry", func(t *testing.T) {
		first, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		first.Stock = 0

		second, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.Equal(t, 20, second.Stock)
	})

	t.Run("mutating a listed item does not touch the cached page", func(t *testing.T) {
		first, err := repo.FindActive(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.NotEmpty(t, first.Items)
		first.Items[0].Name = "scribbled"

		second, err := repo.FindActive(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.NotEqual(t, "scribbled", second.Items[0].Name)
	})

	t.Run("cached list reflects invalidation after save", func(t *testing.T) {
		first, err := repo.FindActive(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, first.Items, 1)

		another := mustProduct(t, "CHIPS-1", "Chips", 7.25, 10)
		require.NoError(t, repo.Save(ctx, another))

		second, err := repo.FindActive(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, second.Items, 2)
	})
}
