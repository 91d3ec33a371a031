package till

import (
	"context"
	"testing"
	"time"

	"github.com/elotech/pdv-backend/internal/domain/identity"
	"github.com/elotech/pdv-backend/internal/domain/sales"
	"github.com/elotech/pdv-backend/internal/domain/shared"
	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTillRepository struct {
	mock.Mock
}

func (m *MockTillRepository) Save(ctx context.Context, register *till.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockTillRepository) FindByID(ctx context.Context, id uuid.UUID) (*till.CashRegister, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*till.CashRegister), args.Error(1)
}

func (m *MockTillRepository) FindOpen(ctx context.Context) (*till.CashRegister, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*till.CashRegister), args.Error(1)
}

func (m *MockTillRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*till.CashRegister], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*till.CashRegister]), args.Error(1)
}

func (m *MockTillRepository) Update(ctx context.Context, register *till.CashRegister) error {
	args := m.Called(ctx, register)
	return args.Error(0)
}

func (m *MockTillRepository) SaveSangria(ctx context.Context, sangria *till.Sangria) error {
	args := m.Called(ctx, sangria)
	return args.Error(0)
}

func (m *MockTillRepository) ClosedBetween(ctx context.Context, from, to time.Time) ([]*till.CashRegister, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*till.CashRegister), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByNumber(ctx context.Context, number string) (*sales.Sale, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*sales.Sale], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(*shared.Paginated[*sales.Sale]), args.Error(1)
}

func (m *MockSaleRepository) FindByTill(ctx context.Context, tillID uuid.UUID) ([]*sales.Sale, error) {
	args := m.Called(ctx, tillID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByPeriod(ctx context.Context, from, to time.Time, filter shared.Filter) (*shared.Paginated[*sales.Sale], error) {
	args := m.Called(ctx, from, to, filter)
	return args.Get(0).(*shared.Paginated[*sales.Sale]), args.Error(1)
}

func (m *MockSaleRepository) Update(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) DashboardStats(ctx context.Context, now time.Time) (*sales.DashboardStats, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(*sales.DashboardStats), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(*shared.Paginated[*identity.User]), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newService(tillRepo *MockTillRepository, saleRepo *MockSaleRepository, userRepo *MockUserRepository) *TillService {
	return NewTillService(tillRepo, saleRepo, userRepo, zap.NewNop())
}

func cashSale(t *testing.T, tillID uuid.UUID, method sales.PaymentMethod, amount float64) *sales.Sale {
	t.Helper()
	sale, err := sales.NewSale(uuid.New(), tillID, method, []sales.CartLine{
		{ProductID: uuid.New(), ProductName: "Item", UnitPrice: decimal.NewFromFloat(amount), Quantity: 1},
	})
	require.NoError(t, err)
	return sale
}

func TestTillService_Open(t *testing.T) {
	ctx := context.Background()
	operatorID := uuid.New()

	t.Run("opens with a positive amount", func(t *testing.T) {
		tillRepo := new(MockTillRepository)
		service := newService(tillRepo, new(MockSaleRepository), new(MockUserRepository))

		tillRepo.On("Save", ctx, mock.AnythingOfType("*till.CashRegister")).Return(nil)

		resp, err := service.Open(ctx, operatorID, OpenTillRequest{OpeningAmount: decimal.NewFromFloat(100.00)})

		require.NoError(t, err)
		assert.True(t, resp.Open)
		assert.True(t, resp.OpeningAmount.Equal(decimal.NewFromFloat(100.00)))
	})

	t.Run("rejects a non-positive amount before any write", func(t *testing.T) {
		tillRepo := new(MockTillRepository)
		service := newService(tillRepo, new(MockSaleRepository), new(MockUserRepository))

		_, err := service.Open(ctx, operatorID, OpenTillRequest{OpeningAmount: decimal.Zero})

		assert.Error(t, err)
		tillRepo.AssertNotCalled(t, "Save")
	})

	t.Run("surfaces the already-open conflict", func(t *testing.T) {
		tillRepo := new(MockTillRepository)
		service := newService(tillRepo, new(MockSaleRepository), new(MockUserRepository))

		tillRepo.On("Save", ctx, mock.AnythingOfType("*till.CashRegister")).Return(shared.ErrTillAlreadyOpen)

		_, err := service.Open(ctx, operatorID, OpenTillRequest{OpeningAmount: decimal.NewFromFloat(50.00)})

		assert.ErrorIs(t, err, shared.ErrTillAlreadyOpen)
	})
}

func TestTillService_Status(t *testing.T) {
	ctx := context.Background()

	register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
	require.NoError(t, err)
	_, err = register.Withdraw(register.OperatorID, decimal.NewFromFloat(20.00), decimal.NewFromFloat(100.00), "")
	require.NoError(t, err)

	tillRepo := new(MockTillRepository)
	saleRepo := new(MockSaleRepository)
	service := newService(tillRepo, saleRepo, new(MockUserRepository))

	tillRepo.On("FindOpen", ctx).Return(register, nil)
	saleRepo.On("FindByTill", ctx, register.ID).Return([]*sales.Sale{
		cashSale(t, register.ID, sales.PaymentCash, 50.00),
		cashSale(t, register.ID, sales.PaymentPix, 30.00),
		cashSale(t, register.ID, sales.PaymentCard, 40.00),
	}, nil)

	status, err := service.Status(ctx)

	require.NoError(t, err)
	assert.True(t, status.Open)
	require.NotNil(t, status.Register)
	// 100 opening + 50 cash sales - 20 sangria
	assert.True(t, status.Expected.Cash.Equal(decimal.NewFromFloat(130.00)))
	assert.True(t, status.Expected.Pix.Equal(decimal.NewFromFloat(30.00)))
	assert.True(t, status.Expected.Card.Equal(decimal.NewFromFloat(40.00)))
	assert.True(t, status.Expected.Total.Equal(decimal.NewFromFloat(200.00)))
}

func TestTillService_Status_NoOpenRegister(t *testing.T) {
	ctx := context.Background()

	tillRepo := new(MockTillRepository)
	service := newService(tillRepo, new(MockSaleRepository), new(MockUserRepository))

	tillRepo.On("FindOpen", ctx).Return(nil, shared.ErrNoOpenTill)

	status, err := service.Status(ctx)

	require.NoError(t, err)
	assert.False(t, status.Open)
	assert.Nil(t, status.Register)
	assert.True(t, status.Expected.Cash.IsZero())
	assert.True(t, status.Expected.Pix.IsZero())
	assert.True(t, status.Expected.Card.IsZero())
	assert.True(t, status.Expected.Total.IsZero())
}

func TestTillService_Status_IgnoresCancelledSales(t *testing.T) {
	ctx := context.Background()

	register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
	require.NoError(t, err)

	cancelled := cashSale(t, register.ID, sales.PaymentCash, 50.00)
	require.NoError(t, cancelled.Cancel())

	tillRepo := new(MockTillRepository)
	saleRepo := new(MockSaleRepository)
	service := newService(tillRepo, saleRepo, new(MockUserRepository))

	tillRepo.On("FindOpen", ctx).Return(register, nil)
	saleRepo.On("FindByTill", ctx, register.ID).Return([]*sales.Sale{cancelled}, nil)

	status, err := service.Status(ctx)

	require.NoError(t, err)
	assert.True(t, status.Expected.Cash.Equal(decimal.NewFromFloat(100.00)))
}

func TestTillService_Sangria(t *testing.T) {
	ctx := context.Background()

	t.Run("withdraws within expected cash", func(t *testing.T) {
		register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
		require.NoError(t, err)

		tillRepo := new(MockTillRepository)
		saleRepo := new(MockSaleRepository)
		service := newService(tillRepo, saleRepo, new(MockUserRepository))

		tillRepo.On("FindOpen", ctx).Return(register, nil)
		saleRepo.On("FindByTill", ctx, register.ID).Return([]*sales.Sale{}, nil)
		tillRepo.On("SaveSangria", ctx, mock.AnythingOfType("*till.Sangria")).Return(nil)

		resp, err := service.Sangria(ctx, register.OperatorID, SangriaRequest{
			Amount: decimal.NewFromFloat(60.00),
			Reason: "bank deposit",
		})

		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(decimal.NewFromFloat(60.00)))
	})

	t.Run("rejects withdrawal above expected cash", func(t *testing.T) {
		register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
		require.NoError(t, err)

		tillRepo := new(MockTillRepository)
		saleRepo := new(MockSaleRepository)
		service := newService(tillRepo, saleRepo, new(MockUserRepository))

		tillRepo.On("FindOpen", ctx).Return(register, nil)
		saleRepo.On("FindByTill", ctx, register.ID).Return([]*sales.Sale{}, nil)

		_, err = service.Sangria(ctx, register.OperatorID, SangriaRequest{
			Amount: decimal.NewFromFloat(150.00),
		})

		assert.Error(t, err)
		tillRepo.AssertNotCalled(t, "SaveSangria")
	})

	t.Run("no open register", func(t *testing.T) {
		tillRepo := new(MockTillRepository)
		service := newService(tillRepo, new(MockSaleRepository), new(MockUserRepository))

		tillRepo.On("FindOpen", ctx).Return(nil, shared.ErrNoOpenTill)

		_, err := service.Sangria(ctx, uuid.New(), SangriaRequest{Amount: decimal.NewFromFloat(10.00)})
		assert.ErrorIs(t, err, shared.ErrNoOpenTill)
	})
}

func TestTillService_Close(t *testing.T) {
	ctx := context.Background()

	register, err := till.NewCashRegister(uuid.New(), decimal.NewFromFloat(100.00))
	require.NoError(t, err)

	tillRepo := new(MockTillRepository)
	saleRepo := new(MockSaleRepository)
	service := newService(tillRepo, saleRepo, new(MockUserRepository))

	tillRepo.On("FindOpen", ctx).Return(register, nil)
	saleRepo.On("FindByTill", ctx, register.ID).Return([]*sales.Sale{
		cashSale(t, register.ID, sales.PaymentCash, 50.00),
		cashSale(t, register.ID, sales.PaymentPix, 30.00),
	}, nil)
	tillRepo.On("Update", ctx, register).Return(nil)

	resp, err := service.Close(ctx, CloseTillRequest{
		CountedCash: decimal.NewFromFloat(145.00),
		CountedPix:  decimal.NewFromFloat(30.00),
		CountedCard: decimal.Zero,
		Notes:       "short in cash",
	})

	require.NoError(t, err)
	assert.True(t, resp.ExpectedCash.Equal(decimal.NewFromFloat(150.00)))
	assert.True(t, resp.DiffCash.Equal(decimal.NewFromFloat(-5.00)))
	assert.True(t, resp.DiffPix.IsZero())
	assert.True(t, resp.DiffTotal.Equal(decimal.NewFromFloat(-5.00)))
	assert.False(t, register.IsOpen())
}

func TestTillService_DailyReport(t *testing.T) {
	ctx := context.Background()

	operator, err := identity.NewUser("maria@example.com", "Maria", "password123", identity.RoleOperator)
	require.NoError(t, err)

	register, err := till.NewCashRegister(operator.ID, decimal.NewFromFloat(100.00))
	require.NoError(t, err)
	require.NoError(t, register.Close(till.CountedTotals{
		Cash: decimal.NewFromFloat(140.00),
		Pix:  decimal.NewFromFloat(30.00),
	}, till.ExpectedTotals{
		Cash: decimal.NewFromFloat(150.00),
		Pix:  decimal.NewFromFloat(30.00),
	}, ""))

	tillRepo := new(MockTillRepository)
	userRepo := new(MockUserRepository)
	service := newService(tillRepo, new(MockSaleRepository), userRepo)

	tillRepo.On("ClosedBetween", ctx, mock.Anything, mock.Anything).Return([]*till.CashRegister{register}, nil)
	userRepo.On("FindByID", ctx, operator.ID).Return(operator, nil)

	report, err := service.DailyReport(ctx, time.Now())

	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, "Maria", row.OperatorName)
	assert.True(t, row.DiffCash.Equal(decimal.NewFromFloat(-10.00)))
	assert.True(t, row.DiffPix.IsZero())
	assert.True(t, row.DiffTotal.Equal(decimal.NewFromFloat(-10.00)))
}
