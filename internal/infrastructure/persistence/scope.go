package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/catalog"
	"github.com/udyog/backend/internal/domain/identity"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/quotation"
	"github.com/udyog/backend/internal/domain/trade"
)

// gormRepositories hands out repositories bound to one transaction handle,
// so every repository call inside a scope shares the same database
// transaction and row locks taken by one call hold for the rest.
type gormRepositories struct {
	tx *gorm.DB
}

func (r gormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r gormRepositories) Categories() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}
func (r gormRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r gormRepositories) Payments() partner.PaymentHistoryRepository {
	return NewGormPaymentHistoryRepository(r.tx)
}

func (r gormRepositories) Machines() production.MachineRepository {
	return NewGormMachineRepository(r.tx)
}

func (r gormRepositories) Batches() production.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r gormRepositories) Quotations() quotation.Repository {
	return NewGormQuotationRepository(r.tx)
}

func (r gormRepositories) Purchases() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r gormRepositories) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r gormRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r gormRepositories) Tenants() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r gormRepositories) Balances() ledger.BalanceStore {
	return NewGormBalanceStore(r.tx)
}

func (r gormRepositories) Entries() ledger.EntryRepository {
	return NewGormEntryRepository(r.tx)
}

var _ scope.Repositories = (*gormRepositories)(nil)

// GormTransactionScope implements scope.TransactionScope over a GORM
// database transaction. The callback runs inside one transaction; any
// returned error rolls everything back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormRepositories{tx: tx})
	})
}

var _ scope.TransactionScope = (*GormTransactionScope)(nil)
