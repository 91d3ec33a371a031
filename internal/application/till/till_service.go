package till

import (
	"context"
	"errors"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/identity"
	"github.com/elotech/pdv-backend/internal/domain/sales"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TillService handles the cash register open/close lifecycle
type TillService struct {
	tillRepo till.TillRepository
	saleRepo sales.SaleRepository
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewTillService creates a new TillService
func NewTillService(
	tillRepo till.TillRepository,
	saleRepo sales.SaleRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *TillService {
	return &TillService{
		tillRepo: tillRepo,
		saleRepo: saleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Open opens the cash register. The opening amount is validated before any
// write, and the repository reports a conflict when a register is already
// open.
func (s *TillService) Open(ctx context.Context, operatorID uuid.UUID, req OpenTillRequest) (*TillResponse, error) {
	register, err := till.NewCashRegister(operatorID, req.OpeningAmount)
	if err != nil {
		return nil, err
	}

	if err := s.tillRepo.Save(ctx, register); err != nil {
		return nil, err
	}

	s.logger.Info("cash register opened",
		zap.String("register_id", register.ID.String()),
		zap.String("operator_id", operatorID.String()),
		zap.String("opening_amount", register.OpeningAmount.String()))

	resp := ToTillResponse(register)
	return &resp, nil
}

// Status returns the open register with its running expected totals. When
// no register is open it reports a closed status with zero totals instead
// of an error.
func (s *TillService) Status(ctx context.Context) (*TillStatusResponse, error) {
	register, err := s.tillRepo.FindOpen(ctx)
	if errors.Is(err, shared.ErrNoOpenTill) {
		return &TillStatusResponse{
			Expected: ExpectedTotalsResponse{
				Cash:  decimal.Zero,
				Pix:   decimal.Zero,
				Card:  decimal.Zero,
				Total: decimal.Zero,
			},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	expected, err := s.expectedTotals(ctx, register)
	if err != nil {
		return nil, err
	}

	registerResp := ToTillResponse(register)
	return &TillStatusResponse{
		Open:     true,
		Register: &registerResp,
		Expected: ExpectedTotalsResponse{
			Cash:  expected.Cash,
			Pix:   expected.Pix,
			Card:  expected.Card,
			Total: expected.Total,
		},
	}, nil
}

// Sangria withdraws cash from the open register
func (s *TillService) Sangria(ctx context.Context, operatorID uuid.UUID, req SangriaRequest) (*SangriaResponse, error) {
	register, err := s.tillRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	expected, err := s.expectedTotals(ctx, register)
	if err != nil {
		return nil, err
	}

	sangria, err := register.Withdraw(operatorID, req.Amount, expected.Cash, req.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.tillRepo.SaveSangria(ctx, sangria); err != nil {
		return nil, err
	}

	s.logger.Info("sangria registered",
		zap.String("register_id", register.ID.String()),
		zap.String("amount", sangria.Amount.String()))

	return ToSangriaResponse(sangria), nil
}

// Close closes the open register, recording counted amounts alongside the
// expected amounts computed from sales and withdrawals
func (s *TillService) Close(ctx context.Context, req CloseTillRequest) (*CloseTillResponse, error) {
	register, err := s.tillRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	expected, err := s.expectedTotals(ctx, register)
	if err != nil {
		return nil, err
	}

	counted := till.CountedTotals{
		Cash: req.CountedCash,
		Pix:  req.CountedPix,
		Card: req.CountedCard,
	}
	if err := register.Close(counted, *expected, req.Notes); err != nil {
		return nil, err
	}

	if err := s.tillRepo.Update(ctx, register); err != nil {
		return nil, err
	}

	diffCash := counted.Cash.Sub(expected.Cash)
	diffPix := counted.Pix.Sub(expected.Pix)
	diffCard := counted.Card.Sub(expected.Card)

	s.logger.Info("cash register closed",
		zap.String("register_id", register.ID.String()),
		zap.String("diff_total", diffCash.Add(diffPix).Add(diffCard).String()))

	return &CloseTillResponse{
		ID:           register.ID,
		OpenedAt:     register.OpenedAt,
		ClosedAt:     *register.ClosedAt,
		CountedCash:  counted.Cash,
		CountedPix:   counted.Pix,
		CountedCard:  counted.Card,
		ExpectedCash: expected.Cash,
		ExpectedPix:  expected.Pix,
		ExpectedCard: expected.Card,
		DiffCash:     diffCash,
		DiffPix:      diffPix,
		DiffCard:     diffCard,
		DiffTotal:    diffCash.Add(diffPix).Add(diffCard),
	}, nil
}

// History returns past register cycles, newest first
func (s *TillService) History(ctx context.Context, filter shared.Filter) (*shared.Paginated[*TillResponse], error) {
	page, err := s.tillRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*TillResponse, len(page.Items))
	for i, register := range page.Items {
		resp := ToTillResponse(register)
		items[i] = &resp
	}

	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// DailyReport returns every register cycle closed on the given day with
// counted versus expected differences per payment method
func (s *TillService) DailyReport(ctx context.Context, date time.Time) (*DailyReportResponse, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	registers, err := s.tillRepo.ClosedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	rows := make([]ReportRowResponse, 0, len(registers))
	for _, register := range registers {
		row := ReportRowResponse{
			RegisterID:    register.ID,
			OperatorID:    register.OperatorID,
			OperatorName:  s.operatorName(ctx, register.OperatorID),
			OpenedAt:      register.OpenedAt,
			ClosedAt:      *register.ClosedAt,
			OpeningAmount: register.OpeningAmount,
			CountedCash:   valueOrZero(register.CountedCash),
			CountedPix:    valueOrZero(register.CountedPix),
			CountedCard:   valueOrZero(register.CountedCard),
			SangriaTotal:  register.SangriaTotal(),
		}
		row.DiffCash = row.CountedCash.Sub(valueOrZero(register.ExpectedCash))
		row.DiffPix = row.CountedPix.Sub(valueOrZero(register.ExpectedPix))
		row.DiffCard = row.CountedCard.Sub(valueOrZero(register.ExpectedCard))
		row.DiffTotal = row.DiffCash.Add(row.DiffPix).Add(row.DiffCard)
		rows = append(rows, row)
	}

	return &DailyReportResponse{Date: dayStart, Rows: rows}, nil
}

// expectedTotals computes what the register should hold per payment method:
// the opening amount plus cash sales minus withdrawals for cash, and the
// sale sums for pix and card.
func (s *TillService) expectedTotals(ctx context.Context, register *till.CashRegister) (*till.ExpectedTotals, error) {
	saleList, err := s.saleRepo.FindByTill(ctx, register.ID)
	if err != nil {
		return nil, err
	}

	totals := till.ExpectedTotals{
		Cash: register.OpeningAmount,
		Pix:  decimal.Zero,
		Card: decimal.Zero,
	}
	for _, sale := range saleList {
		if sale.Status != sales.SaleCompleted {
			continue
		}
		switch sale.PaymentMethod {
		case sales.PaymentCash:
			totals.Cash = totals.Cash.Add(sale.Total)
		case sales.PaymentPix:
			totals.Pix = totals.Pix.Add(sale.Total)
		case sales.PaymentCard:
			totals.Card = totals.Card.Add(sale.Total)
		}
	}
	totals.Cash = totals.Cash.Sub(register.SangriaTotal())
	totals.Total = totals.Cash.Add(totals.Pix).Add(totals.Card)

	return &totals, nil
}

func (s *TillService) operatorName(ctx context.Context, operatorID uuid.UUID) string {
	user, err := s.userRepo.FindByID(ctx, operatorID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("operator lookup failed", zap.String("operator_id", operatorID.String()), zap.Error(err))
		}
		return ""
	}
	return user.Name
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
