package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/shared"
)

// newMockDB wires GORM's postgres dialect over sqlmock so the generated SQL
// can be asserted, locking clause included.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormBalanceStore_LoadForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormBalanceStore(db)

	tenantID := uuid.New()
	productID := uuid.New()

	mock.ExpectQuery(`SELECT tenant_id, remaining_quantity AS balance FROM "products" WHERE id = .+ FOR UPDATE`).
		WithArgs(productID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "balance"}).
			AddRow(tenantID.String(), "123.5"))

	account, err := store.LoadForUpdate(context.Background(), ledger.AccountProductStock, productID)
	require.NoError(t, err)
	assert.Equal(t, tenantID, account.TenantID)
	assert.True(t, account.Balance.Equal(decimal.NewFromFloat(123.5)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBalanceStore_LoadForUpdateNullBalanceReadsZero(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormBalanceStore(db)

	tenantID := uuid.New()
	customerID := uuid.New()

	mock.ExpectQuery(`SELECT tenant_id, remaining_payment_amount AS balance FROM "customers" WHERE id = .+ FOR UPDATE`).
		WithArgs(customerID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "balance"}).
			AddRow(tenantID.String(), nil))

	account, err := store.LoadForUpdate(context.Background(), ledger.AccountCustomerBalance, customerID)
	require.NoError(t, err)
	assert.True(t, account.Balance.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormBalanceStore_LoadForUpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewGormBalanceStore(db)

	productID := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM "products"`).
		WithArgs(productID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "balance"}))

	_, err := store.LoadForUpdate(context.Background(), ledger.AccountProductStock, productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormBalanceStore_RejectsUnknownKind(t *testing.T) {
	db, _ := newMockDB(t)
	store := NewGormBalanceStore(db)

	_, err := store.LoadForUpdate(context.Background(), ledger.AccountKind("BOGUS"), uuid.New())
	require.Error(t, err)

	err = store.UpdateBalance(context.Background(), ledger.AccountKind("BOGUS"), uuid.New(), decimal.Zero)
	require.Error(t, err)
}
