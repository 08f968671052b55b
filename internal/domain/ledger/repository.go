package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// Account is a snapshot of one mutable balance loaded under a row lock
type Account struct {
	Kind     AccountKind
	EntityID uuid.UUID
	TenantID uuid.UUID
	Balance  decimal.Decimal
}

// BalanceStore loads and writes the balance fields backing each account kind.
// Implementations must take a row-level write lock in LoadForUpdate so the
// read-modify-write in Service.Adjust is safe across processes, and must
// treat a NULL stored balance as zero.
type BalanceStore interface {
	// LoadForUpdate loads the account snapshot, locking the backing row for
	// the remainder of the enclosing transaction. Missing entity -> ErrNotFound.
	LoadForUpdate(ctx context.Context, kind AccountKind, entityID uuid.UUID) (*Account, error)

	// UpdateBalance writes the new balance for the account
	UpdateBalance(ctx context.Context, kind AccountKind, entityID uuid.UUID, balance decimal.Decimal) error
}

// EntryFilter narrows ledger entry queries
type EntryFilter struct {
	shared.Filter
	Kind     *AccountKind
	EntityID *uuid.UUID
	Reason   *Reason
	DateFrom *time.Time
	DateTo   *time.Time
}

// EntryRepository defines the interface for ledger entry persistence.
// Entries are append-only; there is no update or delete.
type EntryRepository interface {
	// Create appends a new entry
	Create(ctx context.Context, entry *Entry) error

	// FindBySource finds all entries produced by a source document
	FindBySource(ctx context.Context, tenantID uuid.UUID, source Source) ([]Entry, error)

	// FindByEntity finds entries for one account, newest first
	FindByEntity(ctx context.Context, tenantID uuid.UUID, kind AccountKind, entityID uuid.UUID, filter EntryFilter) ([]Entry, int64, error)

	// NetBySource sums entry deltas per account for a source document.
	// After a reversal the nets are zero, which makes reversal idempotent.
	NetBySource(ctx context.Context, tenantID uuid.UUID, source Source) ([]AccountDelta, error)
}
