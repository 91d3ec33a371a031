package till

import (
	"context"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TillRepository defines the persistence operations for cash registers
type TillRepository interface {
	// Save persists a new register. It returns ErrTillAlreadyOpen when an
	// open register already exists.
	Save(ctx context.Context, register *CashRegister) error
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)
	// FindOpen returns the currently open register, or ErrNoOpenTill.
	FindOpen(ctx context.Context) (*CashRegister, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*CashRegister], error)
	Update(ctx context.Context, register *CashRegister) error
	SaveSangria(ctx context.Context, sangria *Sangria) error
	// ClosedBetween returns registers closed within the interval, oldest first.
	ClosedBetween(ctx context.Context, from, to time.Time) ([]*CashRegister, error)
}
