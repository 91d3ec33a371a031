package sales

import (
	"github.com/elotech/pdv-backend/internal/domain/catalog"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product line in an in-progress checkout
type CartLine struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Stock       int
}

// Cart holds the lines of a checkout in progress. Quantities are always
// kept within the stock recorded when the product was added.
type Cart struct {
	lines []CartLine
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds one unit of the product, or increments the existing line.
// Products with zero stock are rejected. Incrementing past the available
// stock returns an error and leaves the line as it was.
func (c *Cart) AddItem(product *catalog.Product) error {
	if !product.Active {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale")
	}
	if product.Stock <= 0 {
		return shared.ErrOutOfStock
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			if c.lines[i].Quantity >= product.Stock {
				return shared.ErrInsufficientStock
			}
			c.lines[i].Quantity++
			return nil
		}
	}

	c.lines = append(c.lines, CartLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    1,
		Stock:       product.Stock,
	})

	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. A quantity above the recorded stock returns an error
// and leaves the line as it was.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}

	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if quantity > c.lines[i].Stock {
				return shared.ErrInsufficientStock
			}
			c.lines[i].Quantity = quantity
			return nil
		}
	}

	return shared.ErrNotFound
}

// Remove deletes a line from the cart
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount returns the total number of units across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Total returns the sum of line subtotals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
