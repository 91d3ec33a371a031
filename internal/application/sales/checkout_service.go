package sales

import (
	"context"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/catalog"
	"github.com/elotech/pdv-backend/internal/domain/sales"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns carts into persisted sales
type CheckoutService struct {
	saleRepo    sales.SaleRepository
	productRepo catalog.ProductRepository
	tillRepo    till.TillRepository
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	tillRepo till.TillRepository,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		tillRepo:    tillRepo,
		logger:      logger,
	}
}

// Checkout completes a sale. The sale header and its items are written
// atomically. Stock decrements happen afterwards per item on a best-effort
// basis: a failed decrement is logged but never fails a sale that already
// happened at the counter.
func (s *CheckoutService) Checkout(ctx context.Context, operatorID uuid.UUID, req CheckoutRequest) (*SaleResponse, error) {
	openTill, err := s.tillRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}

	cart := sales.NewCart()
	for _, item := range mergeItems(req.Items) {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if err := cart.AddItem(product); err != nil {
			return nil, err
		}
		if item.Quantity > 1 {
			if err := cart.UpdateQuantity(product.ID, item.Quantity); err != nil {
				return nil, err
			}
		}
	}

	sale, err := sales.NewSale(operatorID, openTill.ID, sales.PaymentMethod(req.PaymentMethod), cart.Lines())
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.decrementStock(ctx, sale)

	s.logger.Info("sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("number", sale.Number),
		zap.String("payment_method", string(sale.PaymentMethod)),
		zap.String("total", sale.Total.String()))

	return ToSaleResponse(sale), nil
}

// mergeItems collapses repeated product lines into one, summing their
// quantities. Order of first appearance is kept.
func mergeItems(items []CheckoutItem) []CheckoutItem {
	merged := make([]CheckoutItem, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

// decrementStock applies per-item stock decrements after a sale is saved.
// Each failure is logged and skipped.
func (s *CheckoutService) decrementStock(ctx context.Context, sale *sales.Sale) {
	for _, item := range sale.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			s.logger.Warn("stock decrement skipped, product lookup failed",
				zap.String("sale_id", sale.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			continue
		}

		product.DecrementStock(item.Quantity)
		if err := s.productRepo.Update(ctx, product); err != nil {
			s.logger.Warn("stock decrement failed",
				zap.String("sale_id", sale.ID.String()),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}
}

// Get returns a sale by ID
func (s *CheckoutService) Get(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// List returns a page of sales, newest first
func (s *CheckoutService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*SaleResponse], error) {
	page, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToSaleResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// History returns sales created within the interval
func (s *CheckoutService) History(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[*SaleResponse], error) {
	if !to.After(from) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "End of period must be after its start")
	}

	page, err := s.saleRepo.FindByPeriod(ctx, from, to, filter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToSaleResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Cancel marks a sale as cancelled. Stock is not restored automatically.
func (s *CheckoutService) Cancel(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sale.Cancel(); err != nil {
		return nil, err
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.Info("sale cancelled", zap.String("sale_id", sale.ID.String()))
	return ToSaleResponse(sale), nil
}

// DashboardStats aggregates sales figures for today and the current month
// together with active and low-stock product counts
func (s *CheckoutService) DashboardStats(ctx context.Context) (*DashboardStatsResponse, error) {
	stats, err := s.saleRepo.DashboardStats(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	active, err := s.productRepo.FindActive(ctx, shared.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStatsResponse{
		TodayTotal:     stats.TodayTotal,
		TodayCount:     stats.TodayCount,
		MonthTotal:     stats.MonthTotal,
		MonthCount:     stats.MonthCount,
		ActiveProducts: active.Total,
		LowStockCount:  int64(len(lowStock)),
	}, nil
}
