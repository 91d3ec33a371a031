package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTillRepository_Save(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTillRepository(db)
	ctx := context.Background()

	t.Run("opens a register", func(t *testing.T) {
		register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, register))
	})

	t.Run("second open register is rejected", func(t *testing.T) {
		register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(50.00))
		require.NoError(t, err)

		err = repo.Save(ctx, register)

		assert.ErrorIs(t, err, shared.ErrTillAlreadyOpen)
	})

	t.Run("allowed again after the open register closes", func(t *testing.T) {
		open, err := repo.FindOpen(ctx)
		require.NoError(t, err)
		require.NoError(t, open.Close(till.CountedTotals{
			Cash: decimal.NewFromFloat(100.00),
			Pix:  decimal.Zero,
			Card: decimal.Zero,
		}, till.ExpectedTotals{}, ""))
		require.NoError(t, repo.Update(ctx, open))

		next, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(80.00))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, next))
	})
}

func TestGormTillRepository_FindOpen(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTillRepository(db)
	ctx := context.Background()

	t.Run("no open register", func(t *testing.T) {
		_, err := repo.FindOpen(ctx)
		assert.ErrorIs(t, err, shared.ErrNoOpenTill)
	})

	t.Run("returns the open register with its withdrawals", func(t *testing.T) {
		register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, register))

		sangria, err := register.Withdraw(register.OperatorID, decimal.NewFromFloat(30.00), decimal.NewFromFloat(100.00), "bank deposit")
		require.NoError(t, err)
		require.NoError(t, repo.SaveSangria(ctx, sangria))

		open, err := repo.FindOpen(ctx)
		require.NoError(t, err)
		assert.Equal(t, register.ID, open.ID)
		require.Len(t, open.Sangrias, 1)
		assert.True(t, open.Sangrias[0].Amount.Equal(decimal.NewFromFloat(30.00)))
	})
}

func TestGormTillRepository_ClosedBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTillRepository(db)
	ctx := context.Background()

	register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, register))
	require.NoError(t, register.Close(till.CountedTotals{
		Cash: decimal.NewFromFloat(150.00),
	}, till.ExpectedTotals{
		Cash: decimal.NewFromFloat(150.00),
	}, ""))
	require.NoError(t, repo.Update(ctx, register))

	now := time.Now()

	t.Run("finds registers closed today", func(t *testing.T) {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		closed, err := repo.ClosedBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, closed, 1)
		assert.Equal(t, register.ID, closed[0].ID)
		require.NotNil(t, closed[0].CountedCash)
		assert.True(t, closed[0].CountedCash.Equal(decimal.NewFromFloat(150.00)))
	})

	t.Run("empty outside the interval", func(t *testing.T) {
		closed, err := repo.ClosedBetween(ctx, now.AddDate(0, 0, 1), now.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Empty(t, closed)
	})
}
