package till

import (
	"time"

	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenTillRequest represents a request to open the cash register
type OpenTillRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" binding:"required"`
}

// SangriaRequest represents a cash withdrawal request
type SangriaRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason" binding:"max=500"`
}

// CloseTillRequest represents a request to close the cash register with the
// amounts physically counted per payment method
type CloseTillRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash"`
	CountedPix  decimal.Decimal `json:"counted_pix"`
	CountedCard decimal.Decimal `json:"counted_card"`
	Notes       string          `json:"notes" binding:"max=2000"`
}

// TillResponse represents a register cycle in API responses
type TillResponse struct {
	ID            uuid.UUID       `json:"id"`
	OperatorID    uuid.UUID       `json:"operator_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
	SangriaTotal  decimal.Decimal `json:"sangria_total"`
	Open          bool            `json:"open"`
}

// ExpectedTotalsResponse holds expected amounts per payment method
type ExpectedTotalsResponse struct {
	Cash  decimal.Decimal `json:"cash"`
	Pix   decimal.Decimal `json:"pix"`
	Card  decimal.Decimal `json:"card"`
	Total decimal.Decimal `json:"total"`
}

// TillStatusResponse is the open register with its running expected totals.
// When no register is open, Open is false, Register is nil and the totals
// are zero.
type TillStatusResponse struct {
	Open     bool                   `json:"open"`
	Register *TillResponse          `json:"register,omitempty"`
	Expected ExpectedTotalsResponse `json:"expected"`
}

// SangriaResponse represents a withdrawal in API responses
type SangriaResponse struct {
	ID         uuid.UUID       `json:"id"`
	RegisterID uuid.UUID       `json:"register_id"`
	OperatorID uuid.UUID       `json:"operator_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CloseTillResponse summarizes a closed register with counted versus
// expected differences per payment method
type CloseTillResponse struct {
	ID           uuid.UUID       `json:"id"`
	OpenedAt     time.Time       `json:"opened_at"`
	ClosedAt     time.Time       `json:"closed_at"`
	CountedCash  decimal.Decimal `json:"counted_cash"`
	CountedPix   decimal.Decimal `json:"counted_pix"`
	CountedCard  decimal.Decimal `json:"counted_card"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	ExpectedPix  decimal.Decimal `json:"expected_pix"`
	ExpectedCard decimal.Decimal `json:"expected_card"`
	DiffCash     decimal.Decimal `json:"diff_cash"`
	DiffPix      decimal.Decimal `json:"diff_pix"`
	DiffCard     decimal.Decimal `json:"diff_card"`
	DiffTotal    decimal.Decimal `json:"diff_total"`
}

// ReportRowResponse is one closed register cycle in the daily report
type ReportRowResponse struct {
	RegisterID    uuid.UUID       `json:"register_id"`
	OperatorID    uuid.UUID       `json:"operator_id"`
	OperatorName  string          `json:"operator_name"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      time.Time       `json:"closed_at"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	CountedCash   decimal.Decimal `json:"counted_cash"`
	CountedPix    decimal.Decimal `json:"counted_pix"`
	CountedCard   decimal.Decimal `json:"counted_card"`
	DiffCash      decimal.Decimal `json:"diff_cash"`
	DiffPix       decimal.Decimal `json:"diff_pix"`
	DiffCard      decimal.Decimal `json:"diff_card"`
	DiffTotal     decimal.Decimal `json:"diff_total"`
	SangriaTotal  decimal.Decimal `json:"sangria_total"`
}

// DailyReportResponse aggregates all register cycles closed on a day
type DailyReportResponse struct {
	Date time.Time           `json:"date"`
	Rows []ReportRowResponse `json:"rows"`
}

// ToTillResponse converts a register entity to a response DTO
func ToTillResponse(r *till.CashRegister) TillResponse {
	return TillResponse{
		ID:            r.ID,
		OperatorID:    r.OperatorID,
		OpeningAmount: r.OpeningAmount,
		OpenedAt:      r.OpenedAt,
		ClosedAt:      r.ClosedAt,
		SangriaTotal:  r.SangriaTotal(),
		Open:          r.IsOpen(),
	}
}

// ToSangriaResponse converts a withdrawal entity to a response DTO
func ToSangriaResponse(s *till.Sangria) *SangriaResponse {
	return &SangriaResponse{
		ID:         s.ID,
		RegisterID: s.RegisterID,
		OperatorID: s.OperatorID,
		Amount:     s.Amount,
		Reason:     s.Reason,
		CreatedAt:  s.CreatedAt,
	}
}
