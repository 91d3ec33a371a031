package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/elotech/pdv-backend/internal/application/catalog"
	salesapp "github.com/elotech/pdv-backend/internal/application/sales"
	tillapp "github.com/elotech/pdv-backend/internal/application/till"
	"github.com/elotech/pdv-backend/internal/domain/identity"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/infrastructure/logger"
	"github.com/elotech/pdv-backend/internal/infrastructure/persistence"
)

type posFlowSetup struct {
	ProductService  *catalogapp.ProductService
	CheckoutService *salesapp.CheckoutService
	TillService     *tillapp.TillService
	Operator        *identity.User
}

func newPOSFlowSetup(t *testing.T, tdb *TestDB) *posFlowSetup {
	t.Helper()

	log := logger.NewNop()
	productRepo := persistence.NewGormProductRepository(tdb.DB)
	saleRepo := persistence.NewGormSaleRepository(tdb.DB)
	tillRepo := persistence.NewGormTillRepository(tdb.DB)
	userRepo := persistence.NewGormUserRepository(tdb.DB)

	operator, err := identity.NewUser("maria@loja.com", "Maria Souza", "senha-segura", identity.RoleOperator)
	require.NoError(t, err)
	require.NoError(t, userRepo.Save(context.Background(), operator))

	return &posFlowSetup{
		ProductService:  catalogapp.NewProductService(productRepo, log),
		CheckoutService: salesapp.NewCheckoutService(saleRepo, productRepo, tillRepo, log),
		TillService:     tillapp.NewTillService(tillRepo, saleRepo, userRepo, log),
		Operator:        operator,
	}
}

func TestPOSFlow_FullDay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	setup := newPOSFlowSetup(t, tdb)
	ctx := context.Background()
	operatorID := setup.Operator.ID

	// catalog setup
	coke, err := setup.ProductService.Create(ctx, catalogapp.CreateProductRequest{
		Code:  "COCA350",
		Name:  "Coca-Cola 350ml",
		Price: decimal.NewFromFloat(5.00),
		Stock: 10,
	})
	require.NoError(t, err)

	// selling before the register opens is rejected
	_, err = setup.CheckoutService.Checkout(ctx, operatorID, salesapp.CheckoutRequest{
		Items:         []salesapp.CheckoutItem{{ProductID: coke.ID, Quantity: 1}},
		PaymentMethod: "cash",
	})
	require.ErrorIs(t, err, shared.ErrNoOpenTill)

	// open the register with a float of 100
	register, err := setup.TillService.Open(ctx, operatorID, tillapp.OpenTillRequest{
		OpeningAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, register.Open)

	// a second open is a conflict
	_, err = setup.TillService.Open(ctx, operatorID, tillapp.OpenTillRequest{
		OpeningAmount: decimal.NewFromInt(50),
	})
	require.ErrorIs(t, err, shared.ErrTillAlreadyOpen)

	// 3 units cash, then 2 units pix
	cashSale, err := setup.CheckoutService.Checkout(ctx, operatorID, salesapp.CheckoutRequest{
		Items:         []salesapp.CheckoutItem{{ProductID: coke.ID, Quantity: 3}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.True(t, cashSale.Total.Equal(decimal.NewFromInt(15)))
	assert.Len(t, cashSale.Items, 1)
	assert.NotEmpty(t, cashSale.Number)

	pixSale, err := setup.CheckoutService.Checkout(ctx, operatorID, salesapp.CheckoutRequest{
		Items:         []salesapp.CheckoutItem{{ProductID: coke.ID, Quantity: 2}},
		PaymentMethod: "pix",
	})
	require.NoError(t, err)
	assert.True(t, pixSale.Total.Equal(decimal.NewFromInt(10)))

	// stock went from 10 to 5
	product, err := setup.ProductService.Get(ctx, coke.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	// asking for more than the shelf holds is rejected
	_, err = setup.CheckoutService.Checkout(ctx, operatorID, salesapp.CheckoutRequest{
		Items:         []salesapp.CheckoutItem{{ProductID: coke.ID, Quantity: 6}},
		PaymentMethod: "cash",
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	// running totals: cash 100+15, pix 10
	status, err := setup.TillService.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Open)
	assert.True(t, status.Expected.Cash.Equal(decimal.NewFromInt(115)), "expected cash %s", status.Expected.Cash)
	assert.True(t, status.Expected.Pix.Equal(decimal.NewFromInt(10)))
	assert.True(t, status.Expected.Card.IsZero())

	// withdraw 50 to the safe
	sangria, err := setup.TillService.Sangria(ctx, operatorID, tillapp.SangriaRequest{
		Amount: decimal.NewFromInt(50),
		Reason: "deposito no cofre",
	})
	require.NoError(t, err)
	assert.True(t, sangria.Amount.Equal(decimal.NewFromInt(50)))

	status, err = setup.TillService.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Expected.Cash.Equal(decimal.NewFromInt(65)))

	// close counting exactly what is expected
	closed, err := setup.TillService.Close(ctx, tillapp.CloseTillRequest{
		CountedCash: decimal.NewFromInt(65),
		CountedPix:  decimal.NewFromInt(10),
		CountedCard: decimal.Zero,
	})
	require.NoError(t, err)
	assert.True(t, closed.DiffCash.IsZero(), "cash diff %s", closed.DiffCash)
	assert.True(t, closed.DiffPix.IsZero())
	assert.True(t, closed.DiffTotal.IsZero())

	// status after close reports a closed register with zero totals
	status, err = setup.TillService.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Open)
	assert.Nil(t, status.Register)
	assert.True(t, status.Expected.Cash.IsZero())

	// the day's report names the operator and the closed cycle
	report, err := setup.TillService.DailyReport(ctx, closed.ClosedAt)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Maria Souza", report.Rows[0].OperatorName)
	assert.True(t, report.Rows[0].SangriaTotal.Equal(decimal.NewFromInt(50)))

	// the register can reopen for the next shift
	_, err = setup.TillService.Open(ctx, operatorID, tillapp.OpenTillRequest{
		OpeningAmount: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
}

func TestPOSFlow_CancelledSaleLeavesTotalsAlone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	setup := newPOSFlowSetup(t, tdb)
	ctx := context.Background()
	operatorID := setup.Operator.ID

	product, err := setup.ProductService.Create(ctx, catalogapp.CreateProductRequest{
		Code:  "AGUA500",
		Name:  "Agua Mineral 500ml",
		Price: decimal.NewFromFloat(3.00),
		Stock: 20,
	})
	require.NoError(t, err)

	_, err = setup.TillService.Open(ctx, operatorID, tillapp.OpenTillRequest{
		OpeningAmount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	sale, err := setup.CheckoutService.Checkout(ctx, operatorID, salesapp.CheckoutRequest{
		Items:         []salesapp.CheckoutItem{{ProductID: product.ID, Quantity: 4}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	cancelled, err := setup.CheckoutService.Cancel(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	status, err := setup.TillService.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Expected.Cash.Equal(decimal.NewFromInt(100)), "cancelled sale must not count, got %s", status.Expected.Cash)

	stats, err := setup.CheckoutService.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TodayCount)
	assert.True(t, stats.TodayTotal.IsZero())
}
