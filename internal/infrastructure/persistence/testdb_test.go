package persistence

import (
	"testing"

	"github.com/elotech/pdv-backend/internal/domain/catalog"
	"github.com/elotech/pdv-backend/internal/domain/identity"
	"github.com/elotech/pdv-backend/internal/domain/sales"
	"github.com/elotech/pdv-backend/internal/domain/till"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&catalog.Product{},
		&identity.User{},
		&sales.Sale{},
		&sales.SaleItem{},
		&till.CashRegister{},
		&till.Sangria{},
	)
	require.NoError(t, err)

	// SQLite supports partial indexes, so the single-open-till constraint
	// behaves the same as in Postgres
	err = db.Exec(`CREATE UNIQUE INDEX uniq_open_cash_register ON cash_registers ((closed_at IS NULL)) WHERE closed_at IS NULL`).Error
	require.NoError(t, err)

	return db
}
