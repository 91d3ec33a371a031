package catalog

import (
	"context"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence operations for products
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Product], error)
	FindActive(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Product], error)
	Search(ctx context.Context, query string, filter shared.Filter) (*shared.Paginated[*Product], error)
	FindLowStock(ctx context.Context) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
