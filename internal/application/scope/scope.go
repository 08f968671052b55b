// Package scope defines the unit-of-work boundary the application services
// run inside. Implementations bind every repository to one database
// transaction so that a multi-step operation commits or rolls back as a
// whole.
package scope

import (
	"context"

	"github.com/udyog/backend/internal/domain/catalog"
	"github.com/udyog/backend/internal/domain/identity"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/quotation"
	"github.com/udyog/backend/internal/domain/trade"
)

// Repositories exposes every repository bound to the current transaction.
type Repositories interface {
	Products() catalog.ProductRepository
	Categories() catalog.CategoryRepository
	Customers() partner.CustomerRepository
	Payments() partner.PaymentHistoryRepository
	Machines() production.MachineRepository
	Batches() production.BatchRepository
	Quotations() quotation.Repository
	Purchases() trade.PurchaseRepository
	Sales() trade.SaleRepository
	Users() identity.UserRepository
	Tenants() identity.TenantRepository
	Balances() ledger.BalanceStore
	Entries() ledger.EntryRepository
}

// TransactionScope runs fn inside a transaction. Any error returned by fn
// rolls the transaction back and is returned unchanged.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
