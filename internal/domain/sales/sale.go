package sales

import (
	"fmt"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a sale was paid
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
)

// IsValid reports whether the payment method is one of the accepted values
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentCard:
		return true
	}
	return false
}

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// Sale is a completed checkout with its line items
type Sale struct {
	shared.BaseEntity
	Number        string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	OperatorID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TillID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(10);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        SaleStatus      `gorm:"type:varchar(12);not null;default:'completed'"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a single product line within a sale. Name and unit price are
// copied from the product at checkout time so later catalog edits do not
// rewrite history.
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSale builds a sale from cart lines. The cart must not be empty and the
// payment method must be valid.
func NewSale(operatorID, tillID uuid.UUID, method PaymentMethod, lines []CartLine) (*Sale, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot complete a sale with an empty cart")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cash, pix, or card")
	}

	sale := &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		Number:        newSaleNumber(),
		OperatorID:    operatorID,
		TillID:        tillID,
		PaymentMethod: method,
		Status:        SaleCompleted,
		Total:         decimal.Zero,
	}

	for _, line := range lines {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		sale.Items = append(sale.Items, SaleItem{
			BaseEntity:  shared.NewBaseEntity(),
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
		sale.Total = sale.Total.Add(subtotal)
	}

	return sale, nil
}

// Cancel marks a completed sale as cancelled
func (s *Sale) Cancel() error {
	if s.Status == SaleCancelled {
		return shared.ErrInvalidState
	}

	s.Status = SaleCancelled
	s.UpdatedAt = time.Now()

	return nil
}

// newSaleNumber generates a human-readable sale number from the current
// timestamp in milliseconds, prefixed with "V"
func newSaleNumber() string {
	return fmt.Sprintf("V%d", time.Now().UnixMilli())
}
