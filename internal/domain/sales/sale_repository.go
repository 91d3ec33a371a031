package sales

import (
	"context"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats aggregates sales figures for the dashboard
type DashboardStats struct {
	TodayTotal decimal.Decimal
	TodayCount int64
	MonthTotal decimal.Decimal
	MonthCount int64
}

// SaleRepository defines the persistence operations for sales
type SaleRepository interface {
	Save(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByNumber(ctx context.Context, number string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Sale], error)
	FindByTill(ctx context.Context, tillID uuid.UUID) ([]*Sale, error)
	FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[*Sale], error)
	Update(ctx context.Context, sale *Sale) error
	DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error)
}
