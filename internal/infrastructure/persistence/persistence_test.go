package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/catalog"
	"github.com/udyog/backend/internal/domain/identity"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/shared"
	"github.com/udyog/backend/internal/domain/trade"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(migrateModels()...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, name)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}

func seedCustomer(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, name)
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), customer))
	return customer
}

func TestGormProductRepository_TenantScoping(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)

	tenantA := uuid.New()
	tenantB := uuid.New()
	product := seedProduct(t, db, tenantA, "PVC Granules")

	found, err := repo.FindByIDForTenant(ctx, tenantA, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "PVC Granules", found.Name)

	_, err = repo.FindByIDForTenant(ctx, tenantB, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.DeleteForTenant(ctx, tenantB, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.DeleteForTenant(ctx, tenantA, product.ID))
	_, err = repo.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)
	tenantID := uuid.New()

	low := seedProduct(t, db, tenantID, "Film Roll")
	low.MinimumStock = decimal.NewFromInt(50)
	low.RemainingQuantity = decimal.NewFromInt(10)
	require.NoError(t, repo.Save(ctx, low))

	ok := seedProduct(t, db, tenantID, "Master Batch")
	ok.MinimumStock = decimal.NewFromInt(5)
	ok.RemainingQuantity = decimal.NewFromInt(100)
	require.NoError(t, repo.Save(ctx, ok))

	// no threshold configured, never reported
	seedProduct(t, db, tenantID, "Scrap")

	below, err := repo.FindBelowMinimum(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, below, 1)
	assert.Equal(t, low.ID, below[0].ID)
}

func TestGormEntryRepository_NetBySource(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormEntryRepository(db)

	tenantID := uuid.New()
	productID := uuid.New()
	source := ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()}

	makeEntry := func(delta, before decimal.Decimal) *ledger.Entry {
		entry, err := ledger.NewEntry(
			tenantID, ledger.AccountProductStock, productID,
			delta, ledger.ReasonPurchase, source,
			before, before.Add(delta),
		)
		require.NoError(t, err)
		return entry
	}

	require.NoError(t, repo.Create(ctx, makeEntry(decimal.NewFromInt(10), decimal.Zero)))
	require.NoError(t, repo.Create(ctx, makeEntry(decimal.NewFromInt(5), decimal.NewFromInt(10))))

	nets, err := repo.NetBySource(ctx, tenantID, source)
	require.NoError(t, err)
	require.Len(t, nets, 1)
	assert.Equal(t, ledger.AccountProductStock, nets[0].Kind)
	assert.Equal(t, productID, nets[0].EntityID)
	assert.True(t, nets[0].Net.Equal(decimal.NewFromInt(15)), "net = %s", nets[0].Net)

	// a reversal entry zeroes the net, so a second reversal finds nothing to undo
	reversal, err := ledger.NewEntry(
		tenantID, ledger.AccountProductStock, productID,
		decimal.NewFromInt(-15), ledger.ReasonReversal, source,
		decimal.NewFromInt(15), decimal.Zero,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, reversal))

	nets, err = repo.NetBySource(ctx, tenantID, source)
	require.NoError(t, err)
	if len(nets) == 1 {
		assert.True(t, nets[0].Net.IsZero())
	}

	// entries of another tenant never leak in
	other, err := repo.NetBySource(ctx, uuid.New(), source)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGormEntryRepository_FindByEntity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormEntryRepository(db)

	tenantID := uuid.New()
	productID := uuid.New()

	for i := 1; i <= 3; i++ {
		entry, err := ledger.NewEntry(
			tenantID, ledger.AccountProductStock, productID,
			decimal.NewFromInt(int64(i)), ledger.ReasonPurchase,
			ledger.Source{Type: ledger.SourcePurchase, ID: uuid.NewString()},
			decimal.Zero, decimal.NewFromInt(int64(i)),
		)
		require.NoError(t, err)
		entry.EntryDate = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, entry))
	}

	filter := ledger.EntryFilter{Filter: shared.Filter{Page: 1, PageSize: 2}}
	entries, total, err := repo.FindByEntity(ctx, tenantID, ledger.AccountProductStock, productID, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 2)
	// newest first
	assert.True(t, entries[0].Delta.Equal(decimal.NewFromInt(3)))

	reason := ledger.ReasonSale
	filter.Reason = &reason
	_, total, err = repo.FindByEntity(ctx, tenantID, ledger.AccountProductStock, productID, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestGormBalanceStore_UpdateBalance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	store := NewGormBalanceStore(db)

	tenantID := uuid.New()
	product := seedProduct(t, db, tenantID, "Granules")
	customer := seedCustomer(t, db, tenantID, "Sharma Traders")

	require.NoError(t, store.UpdateBalance(ctx, ledger.AccountProductStock, product.ID, decimal.NewFromInt(42)))
	require.NoError(t, store.UpdateBalance(ctx, ledger.AccountCustomerBalance, customer.ID, decimal.NewFromInt(-7)))

	reloaded, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.RemainingQuantity.Equal(decimal.NewFromInt(42)))

	reloadedCustomer, err := NewGormCustomerRepository(db).FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, reloadedCustomer.RemainingPaymentAmount.Equal(decimal.NewFromInt(-7)))

	err = store.UpdateBalance(ctx, ledger.AccountProductStock, uuid.New(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormBatchRepository_CountByDateAndReplaceItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormBatchRepository(db)

	tenantID := uuid.New()
	machineID := uuid.New()
	day := time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		batch, err := production.NewBatch(tenantID, machineID, day.Add(time.Duration(i)*time.Hour), production.ShiftDay)
		require.NoError(t, err)
		batch.Name = production.BatchName(batch.BatchDate, int64(i+1))
		require.NoError(t, repo.Save(ctx, batch))
	}

	count, err := repo.CountByDate(ctx, tenantID, day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// a batch the day after is outside the window
	next, err := production.NewBatch(tenantID, machineID, day.AddDate(0, 0, 1), production.ShiftNight)
	require.NoError(t, err)
	next.Name = production.BatchName(next.BatchDate, 1)
	require.NoError(t, repo.Save(ctx, next))

	count, err = repo.CountByDate(ctx, tenantID, day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	mixer := production.MixerItem{
		BaseEntity: shared.NewBaseEntity(),
		BatchID:    next.ID,
		ProductID:  uuid.New(),
		Quantity:   decimal.NewFromInt(100),
	}
	yield := production.ProductionItem{
		BaseEntity:   shared.NewBaseEntity(),
		BatchID:      next.ID,
		ProductID:    uuid.New(),
		Quantity:     decimal.NewFromInt(90),
		NumberOfRoll: 3,
	}
	require.NoError(t, repo.ReplaceItems(ctx, next.ID, []production.MixerItem{mixer}, []production.ProductionItem{yield}))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, next.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Mixers, 1)
	require.Len(t, loaded.Productions, 1)

	// a second replace swaps the old rows out entirely
	replacement := production.MixerItem{
		BaseEntity: shared.NewBaseEntity(),
		BatchID:    next.ID,
		ProductID:  uuid.New(),
		Quantity:   decimal.NewFromInt(55),
	}
	require.NoError(t, repo.ReplaceItems(ctx, next.ID, []production.MixerItem{replacement}, nil))

	loaded, err = repo.FindByIDForTenant(ctx, tenantID, next.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Mixers, 1)
	assert.Equal(t, replacement.ProductID, loaded.Mixers[0].ProductID)
	assert.Empty(t, loaded.Productions)
}

func TestGormPurchaseRepository_SaveWithItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormPurchaseRepository(db)

	tenantID := uuid.New()
	customer := seedCustomer(t, db, tenantID, "Gupta Polymers")

	purchase, err := trade.NewPurchase(tenantID, customer.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, purchase.AddItem(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(25)))
	require.NoError(t, purchase.AddItem(uuid.New(), decimal.NewFromInt(4), decimal.NewFromInt(90)))
	require.NoError(t, repo.SaveWithItems(ctx, purchase))

	loaded, err := repo.FindByIDForTenant(ctx, tenantID, purchase.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.True(t, loaded.TotalAmount.Equal(decimal.NewFromInt(610)))

	// shrinking the document drops the removed rows
	loaded.Items = loaded.Items[:0]
	loaded.TotalAmount = decimal.Zero
	require.NoError(t, loaded.AddItem(uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(5)))
	require.NoError(t, repo.SaveWithItems(ctx, loaded))

	reloaded, err := repo.FindByIDForTenant(ctx, tenantID, purchase.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.TotalAmount.Equal(decimal.NewFromInt(5)))
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	txScope := NewGormTransactionScope(db)
	tenantID := uuid.New()

	err := txScope.Execute(ctx, func(repos scope.Repositories) error {
		product, err := catalog.NewProduct(tenantID, "Doomed")
		if err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		return shared.NewDomainError("BOOM", "forced failure")
	})
	require.Error(t, err)

	products, listErr := NewGormProductRepository(db).FindAllForTenant(ctx, tenantID, shared.Filter{})
	require.NoError(t, listErr)
	assert.Empty(t, products)
}

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewGormUserRepository(db)
	tenants := NewGormTenantRepository(db)

	tenant, err := identity.NewTenant("Udyog Plastics")
	require.NoError(t, err)
	require.NoError(t, tenants.Save(ctx, tenant))

	user, err := identity.NewUser(tenant.ID, "Asha", "Asha@Example.com", "s3cretpass", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByEmail(ctx, "  ASHA@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
