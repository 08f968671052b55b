package ledger

import (
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/domain/ledger"
)

// Factory builds transaction-bound ledgers and mutators. The logger is
// process-wide; the balance store and entry repository change per
// transaction, so services ask the factory for fresh mutators inside each
// unit of work.
type Factory struct {
	log *zap.Logger
}

// NewFactory creates a factory for transaction-bound ledgers
func NewFactory(log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{log: log}
}

// Ledger binds a ledger to the given transaction-scoped store and entries
func (f *Factory) Ledger(store ledger.BalanceStore, entries ledger.EntryRepository) *Ledger {
	return NewLedger(store, entries, f.log)
}

// Stock binds a product stock mutator to the given transaction scope
func (f *Factory) Stock(store ledger.BalanceStore, entries ledger.EntryRepository) *ProductStockMutator {
	return NewProductStockMutator(f.Ledger(store, entries))
}

// Balance binds a customer balance mutator to the given transaction scope
func (f *Factory) Balance(store ledger.BalanceStore, entries ledger.EntryRepository) *CustomerBalanceMutator {
	return NewCustomerBalanceMutator(f.Ledger(store, entries))
}
