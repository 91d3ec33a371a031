package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		product, err := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 24)

		require.NoError(t, err)
		assert.Equal(t, "COCA-350", product.Code)
		assert.Equal(t, "Coca-Cola 350ml", product.Name)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(4.50)))
		assert.Equal(t, 24, product.Stock)
		assert.True(t, product.Active)
		assert.NotEqual(t, product.ID.String(), "00000000-0000-0000-0000-000000000000")
	})

	t.Run("code is uppercased", func(t *testing.T) {
		product, err := NewProduct("coca-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 0)

		require.NoError(t, err)
		assert.Equal(t, "COCA-350", product.Code)
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewProduct("", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 0)
		assert.Error(t, err)
	})

	t.Run("code with invalid characters", func(t *testing.T) {
		_, err := NewProduct("COCA 350!", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 0)
		assert.Error(t, err)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewProduct("COCA-350", "", decimal.NewFromFloat(4.50), 0)
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(-1), 0)
		assert.Error(t, err)
	})

	t.Run("negative stock", func(t *testing.T) {
		_, err := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), -1)
		assert.Error(t, err)
	})
}

func TestProduct_DecrementStock(t *testing.T) {
	t.Run("decrements stock", func(t *testing.T) {
		product, _ := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 10)

		product.DecrementStock(3)

		assert.Equal(t, 7, product.Stock)
	})

	t.Run("clamps at zero when quantity exceeds stock", func(t *testing.T) {
		product, _ := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 2)

		product.DecrementStock(5)

		assert.Equal(t, 0, product.Stock)
	})

	t.Run("ignores non-positive quantity", func(t *testing.T) {
		product, _ := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 10)

		product.DecrementStock(0)
		product.DecrementStock(-3)

		assert.Equal(t, 10, product.Stock)
	})
}

func TestProduct_SetPrice(t *testing.T) {
	product, _ := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 10)

	err := product.SetPrice(decimal.NewFromFloat(5.00))
	require.NoError(t, err)
	assert.True(t, product.Price.Equal(decimal.NewFromFloat(5.00)))

	err = product.SetPrice(decimal.NewFromFloat(-1))
	assert.Error(t, err)
}

func TestProduct_IsLowStock(t *testing.T) {
	product, _ := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 10)
	require.NoError(t, product.SetMinStock(5))

	assert.False(t, product.IsLowStock())

	require.NoError(t, product.SetStock(5))
	assert.True(t, product.IsLowStock())

	require.NoError(t, product.SetStock(0))
	assert.True(t, product.IsLowStock())
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	product, _ := NewProduct("COCA-350", "Coca-Cola 350ml", decimal.NewFromFloat(4.50), 10)

	product.Deactivate()
	assert.False(t, product.Active)

	product.Activate()
	assert.True(t, product.Active)
}
