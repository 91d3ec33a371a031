package sales

import (
	"time"

	"github.com/elotech/pdv-backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutItem is one product line in a checkout request
type CheckoutItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a request to complete a sale
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string         `json:"payment_method" binding:"required,paymentmethod"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	Number        string             `json:"number"`
	OperatorID    uuid.UUID          `json:"operator_id"`
	TillID        uuid.UUID          `json:"till_id"`
	PaymentMethod string             `json:"payment_method"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DashboardStatsResponse aggregates sales and catalog figures for the
// dashboard
type DashboardStatsResponse struct {
	TodayTotal     decimal.Decimal `json:"today_total"`
	TodayCount     int64           `json:"today_count"`
	MonthTotal     decimal.Decimal `json:"month_total"`
	MonthCount     int64           `json:"month_count"`
	ActiveProducts int64           `json:"active_products"`
	LowStockCount  int64           `json:"low_stock_count"`
}

// ToSaleResponse converts a sale entity to a response DTO
func ToSaleResponse(s *sales.Sale) *SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		}
	}

	return &SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		OperatorID:    s.OperatorID,
		TillID:        s.TillID,
		PaymentMethod: string(s.PaymentMethod),
		Total:         s.Total,
		Status:        string(s.Status),
		Items:         items,
		CreatedAt:     s.CreatedAt,
	}
}

// ToSaleResponses converts a slice of sales
func ToSaleResponses(items []*sales.Sale) []*SaleResponse {
	out := make([]*SaleResponse, len(items))
	for i, s := range items {
		out[i] = ToSaleResponse(s)
	}
	return out
}
