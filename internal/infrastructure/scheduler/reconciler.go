package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reconciler periodically audits sales and stock data. Stock decrements at
// checkout are best-effort, so the audit is the backstop that surfaces what
// slipped through. It only reads and logs; it never repairs data on its own.
type Reconciler struct {
	db       *gorm.DB
	logger   *zap.Logger
	interval time.Duration
}

// NewReconciler creates a reconciler that runs at the given interval
func NewReconciler(db *gorm.DB, logger *zap.Logger, interval time.Duration) *Reconciler {
	return &Reconciler{
		db:       db,
		logger:   logger,
		interval: interval,
	}
}

// Report holds the findings of one reconciliation pass
type Report struct {
	MismatchedSales  []SaleMismatch
	OrphanedItems    []OrphanedItem
	LowStockProducts []LowStockProduct
}

// SaleMismatch is a sale whose stored total disagrees with its items
type SaleMismatch struct {
	SaleID    uuid.UUID
	Number    string
	Total     string
	ItemTotal string
}

// OrphanedItem is a sale item referencing a product no longer in the catalog
type OrphanedItem struct {
	SaleID    uuid.UUID
	ProductID uuid.UUID
}

// LowStockProduct is an active product at or below its minimum stock level
type LowStockProduct struct {
	ProductID uuid.UUID
	Code      string
	Stock     int
	MinStock  int
}

// Run executes reconciliation passes until the context is cancelled
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("stock reconciler started", zap.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stock reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.ReconcileOnce(ctx); err != nil {
				r.logger.Error("reconciliation pass failed", zap.Error(err))
			}
		}
	}
}

// ReconcileOnce runs a single audit pass and logs every finding
func (r *Reconciler) ReconcileOnce(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT s.id AS sale_id, s.number, s.total, COALESCE(SUM(i.subtotal), 0) AS item_total
		FROM sales s
		LEFT JOIN sale_items i ON i.sale_id = s.id
		WHERE s.status = 'completed'
		GROUP BY s.id, s.number, s.total
		HAVING s.total <> COALESCE(SUM(i.subtotal), 0)
	`).Scan(&report.MismatchedSales).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT i.sale_id, i.product_id
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE p.id IS NULL
	`).Scan(&report.OrphanedItems).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Raw(`
		SELECT id AS product_id, code, stock, min_stock
		FROM products
		WHERE active = true AND stock <= min_stock
	`).Scan(&report.LowStockProducts).Error; err != nil {
		return nil, err
	}

	for _, m := range report.MismatchedSales {
		r.logger.Warn("sale total does not match its items",
			zap.String("sale_id", m.SaleID.String()),
			zap.String("number", m.Number),
			zap.String("total", m.Total),
			zap.String("item_total", m.ItemTotal))
	}
	for _, o := range report.OrphanedItems {
		r.logger.Warn("sale item references a missing product",
			zap.String("sale_id", o.SaleID.String()),
			zap.String("product_id", o.ProductID.String()))
	}
	for _, p := range report.LowStockProducts {
		r.logger.Info("product at or below minimum stock",
			zap.String("product_id", p.ProductID.String()),
			zap.String("code", p.Code),
			zap.Int("stock", p.Stock),
			zap.Int("min_stock", p.MinStock))
	}

	r.logger.Debug("reconciliation pass finished",
		zap.Int("mismatched_sales", len(report.MismatchedSales)),
		zap.Int("orphaned_items", len(report.OrphanedItems)),
		zap.Int("low_stock_products", len(report.LowStockProducts)))

	return report, nil
}
