package till

import (
	"time"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegister is one open/close cycle of the till. At most one register
// may be open at a time; the persistence layer enforces this with a
// partial unique index on open rows.
type CashRegister struct {
	shared.BaseEntity
	OperatorID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	OpeningAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	OpenedAt      time.Time        `gorm:"not null"`
	ClosedAt      *time.Time       `gorm:"index"`
	CountedCash   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CountedPix    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	CountedCard   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ExpectedCash  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ExpectedPix   *decimal.Decimal `gorm:"type:decimal(18,2)"`
	ExpectedCard  *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Notes         string           `gorm:"type:text"`
	Sangrias      []Sangria        `gorm:"foreignKey:RegisterID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// Sangria is a cash withdrawal from an open register
type Sangria struct {
	shared.BaseEntity
	RegisterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	OperatorID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reason     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Sangria) TableName() string {
	return "sangrias"
}

// ExpectedTotals holds the amounts the register should contain per payment
// method, computed from the opening amount, sales, and withdrawals.
type ExpectedTotals struct {
	Cash  decimal.Decimal
	Pix   decimal.Decimal
	Card  decimal.Decimal
	Total decimal.Decimal
}

// CountedTotals holds the amounts physically counted at closing time
type CountedTotals struct {
	Cash decimal.Decimal
	Pix  decimal.Decimal
	Card decimal.Decimal
}

// ReportRow is one closed register cycle in the daily report, with the
// difference between counted and expected amounts per payment method.
type ReportRow struct {
	RegisterID    uuid.UUID
	OperatorID    uuid.UUID
	OperatorName  string
	OpenedAt      time.Time
	ClosedAt      time.Time
	OpeningAmount decimal.Decimal
	CountedCash   decimal.Decimal
	CountedPix    decimal.Decimal
	CountedCard   decimal.Decimal
	ExpectedCash  decimal.Decimal
	ExpectedPix   decimal.Decimal
	ExpectedCard  decimal.Decimal
	DiffCash      decimal.Decimal
	DiffPix       decimal.Decimal
	DiffCard      decimal.Decimal
	DiffTotal     decimal.Decimal
	SangriaTotal  decimal.Decimal
}

// NewCashRegister opens a register with the given starting cash amount.
// The amount must be strictly positive.
func NewCashRegister(operatorID uuid.UUID, openingAmount decimal.Decimal) (*CashRegister, error) {
	if !openingAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_OPENING_AMOUNT", "Opening amount must be greater than zero")
	}

	return &CashRegister{
		BaseEntity:    shared.NewBaseEntity(),
		OperatorID:    operatorID,
		OpeningAmount: openingAmount,
		OpenedAt:      time.Now(),
	}, nil
}

// IsOpen reports whether the register has not been closed yet
func (r *CashRegister) IsOpen() bool {
	return r.ClosedAt == nil
}

// Withdraw records a sangria against the open register. The amount must be
// positive and cannot exceed the expected cash on hand.
func (r *CashRegister) Withdraw(operatorID uuid.UUID, amount, expectedCash decimal.Decimal, reason string) (*Sangria, error) {
	if !r.IsOpen() {
		return nil, shared.ErrNoOpenTill
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_SANGRIA_AMOUNT", "Withdrawal amount must be greater than zero")
	}
	if amount.GreaterThan(expectedCash) {
		return nil, shared.NewDomainError("SANGRIA_EXCEEDS_CASH", "Withdrawal amount exceeds the cash in the register")
	}

	sangria := &Sangria{
		BaseEntity: shared.NewBaseEntity(),
		RegisterID: r.ID,
		OperatorID: operatorID,
		Amount:     amount,
		Reason:     reason,
	}
	r.Sangrias = append(r.Sangrias, *sangria)

	return sangria, nil
}

// Close records the counted amounts alongside the expected amounts and
// stamps the closing time. Closing an already closed register fails.
func (r *CashRegister) Close(counted CountedTotals, expected ExpectedTotals, notes string) error {
	if !r.IsOpen() {
		return shared.ErrInvalidState
	}
	if counted.Cash.IsNegative() || counted.Pix.IsNegative() || counted.Card.IsNegative() {
		return shared.NewDomainError("INVALID_COUNTED_AMOUNT", "Counted amounts cannot be negative")
	}

	now := time.Now()
	r.ClosedAt = &now
	r.CountedCash = &counted.Cash
	r.CountedPix = &counted.Pix
	r.CountedCard = &counted.Card
	r.ExpectedCash = &expected.Cash
	r.ExpectedPix = &expected.Pix
	r.ExpectedCard = &expected.Card
	r.Notes = notes
	r.UpdatedAt = now

	return nil
}

// SangriaTotal sums all withdrawals recorded on the register
func (r *CashRegister) SangriaTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Sangrias {
		total = total.Add(s.Amount)
	}
	return total
}
