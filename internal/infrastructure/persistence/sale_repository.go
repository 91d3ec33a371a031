package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/sales"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save persists a sale and its items atomically
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(sale).Error
	})
}

// FindByID finds a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its sale number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("number = ?", number).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales matching the filter, newest first
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*sales.Sale], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&sales.Sale{}), filter)
}

// FindByTill finds all sales recorded against a till cycle
func (r *GormSaleRepository) FindByTill(ctx context.Context, tillID uuid.UUID) ([]*sales.Sale, error) {
	var result []*sales.Sale
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("till_id = ?", tillID).
		Order("created_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByPeriod finds sales created within the interval
func (r *GormSaleRepository) FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[*sales.Sale], error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	return r.paginate(ctx, query, filter)
}

// Update persists changes to an existing sale
func (r *GormSaleRepository) Update(ctx context.Context, sale *sales.Sale) error {
	result := r.db.WithContext(ctx).Model(sale).
		Select("status", "updated_at").
		Updates(sale)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DashboardStats aggregates completed sales for today and the current month
func (r *GormSaleRepository) DashboardStats(ctx context.Context, now time.Time) (*sales.DashboardStats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	today, err := r.sumSince(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	month, err := r.sumSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &sales.DashboardStats{
		TodayTotal: today.Total,
		TodayCount: today.Count,
		MonthTotal: month.Total,
		MonthCount: month.Count,
	}, nil
}

type salesAggregate struct {
	Total decimal.Decimal
	Count int64
}

func (r *GormSaleRepository) sumSince(ctx context.Context, since time.Time) (*salesAggregate, error) {
	var agg salesAggregate
	err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("status = ? AND created_at >= ?", sales.SaleCompleted, since).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func (r *GormSaleRepository) paginate(ctx context.Context, query *gorm.DB, filter shared.Filter) (*shared.Paginated[*sales.Sale], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var result []*sales.Sale
	if err := applyFilter(query, filter, SaleSortFields, "created_at").
		Preload("Items").
		Find(&result).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(result, total, filter.Page, filter.PageSize)
	return &page, nil
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
