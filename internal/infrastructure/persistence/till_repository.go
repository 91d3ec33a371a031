package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTillRepository implements TillRepository using GORM. Single-open-till
// is enforced by a partial unique index on open rows, so concurrent opens
// race at the database rather than in application code.
type GormTillRepository struct {
	db *gorm.DB
}

// NewGormTillRepository creates a new GormTillRepository
func NewGormTillRepository(db *gorm.DB) *GormTillRepository {
	return &GormTillRepository{db: db}
}

// Save persists a new register. A unique index violation on the open-row
// index means another register is already open.
func (r *GormTillRepository) Save(ctx context.Context, register *till.CashRegister) error {
	if err := r.db.WithContext(ctx).Omit("Sangrias").Create(register).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrTillAlreadyOpen
		}
		return err
	}
	return nil
}

// FindByID finds a register with its withdrawals
func (r *GormTillRepository) FindByID(ctx context.Context, id uuid.UUID) (*till.CashRegister, error) {
	var register till.CashRegister
	if err := r.db.WithContext(ctx).Preload("Sangrias").
		First(&register, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &register, nil
}

// FindOpen returns the currently open register
func (r *GormTillRepository) FindOpen(ctx context.Context) (*till.CashRegister, error) {
	var register till.CashRegister
	if err := r.db.WithContext(ctx).Preload("Sangrias").
		Where("closed_at IS NULL").
		Order("opened_at DESC").
		First(&register).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNoOpenTill
		}
		return nil, err
	}
	return &register, nil
}

// FindAll finds registers matching the filter, newest first
func (r *GormTillRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*till.CashRegister], error) {
	query := r.db.WithContext(ctx).Model(&till.CashRegister{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var registers []*till.CashRegister
	if err := applyFilter(query, filter, TillSortFields, "opened_at").
		Preload("Sangrias").
		Find(&registers).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(registers, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update persists changes to an existing register
func (r *GormTillRepository) Update(ctx context.Context, register *till.CashRegister) error {
	result := r.db.WithContext(ctx).Model(register).
		Select("*").Omit("id", "created_at", "Sangrias").
		Updates(register)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SaveSangria persists a withdrawal
func (r *GormTillRepository) SaveSangria(ctx context.Context, sangria *till.Sangria) error {
	return r.db.WithContext(ctx).Create(sangria).Error
}

// ClosedBetween returns registers closed within the interval, oldest first
func (r *GormTillRepository) ClosedBetween(ctx context.Context, from, to time.Time) ([]*till.CashRegister, error) {
	var registers []*till.CashRegister
	if err := r.db.WithContext(ctx).Preload("Sangrias").
		Where("closed_at >= ? AND closed_at < ?", from, to).
		Order("closed_at ASC").
		Find(&registers).Error; err != nil {
		return nil, err
	}
	return registers, nil
}

var _ till.TillRepository = (*GormTillRepository)(nil)
