package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/shared"
)

// Adjustment describes one requested balance mutation. Amount is always
// non-negative; Intent carries the direction.
type Adjustment struct {
	Kind       ledger.AccountKind
	EntityID   uuid.UUID
	Amount     decimal.Decimal
	Intent     ledger.Intent
	Reason     ledger.Reason
	Source     ledger.Source
	OperatorID *uuid.UUID
}

// Ledger applies balance adjustments to a single numeric field on an entity
// and records every mutation as an append-only entry.
//
// Serialization comes from the row-level lock the BalanceStore takes inside
// the enclosing database transaction, and only from there. The row lock is
// held until the transaction commits, so no lock may be layered on top of it
// with a shorter scope: a document rewrite adjusts the same account twice in
// one transaction, and an inner lock released between those two calls lets a
// concurrent writer wedge itself against the still-held row lock. Reversal
// never trusts caller-supplied magnitudes: it replays the net inverse of the
// entries a document produced.
type Ledger struct {
	store   ledger.BalanceStore
	entries ledger.EntryRepository
	log     *zap.Logger
}

// NewLedger creates a Ledger bound to the given store and entry repository.
func NewLedger(store ledger.BalanceStore, entries ledger.EntryRepository, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{
		store:   store,
		entries: entries,
		log:     log,
	}
}

// Adjust applies one adjustment: load the balance under a row lock, verify
// tenant ownership, add or subtract the amount, persist the new balance and
// the ledger entry. A missing entity yields NotFound; a tenant mismatch
// yields Forbidden without mutating anything. Balances may go negative.
func (l *Ledger) Adjust(ctx context.Context, tenantID uuid.UUID, adj Adjustment) (*ledger.Entry, error) {
	if err := validateAdjustment(adj); err != nil {
		return nil, err
	}

	account, err := l.store.LoadForUpdate(ctx, adj.Kind, adj.EntityID)
	if err != nil {
		return nil, err
	}
	if account.TenantID != tenantID {
		return nil, shared.ErrForbidden
	}

	delta := adj.Amount
	if adj.Intent == ledger.IntentDecrease {
		delta = delta.Neg()
	}

	before := account.Balance
	after := before.Add(delta)

	entry, err := ledger.NewEntry(tenantID, adj.Kind, adj.EntityID, delta, adj.Reason, adj.Source, before, after)
	if err != nil {
		return nil, err
	}
	if adj.OperatorID != nil {
		entry.WithOperator(*adj.OperatorID)
	}

	if err := l.store.UpdateBalance(ctx, adj.Kind, adj.EntityID, after); err != nil {
		return nil, err
	}
	if err := l.entries.Create(ctx, entry); err != nil {
		return nil, err
	}

	l.log.Info("ledger adjustment applied",
		zap.String("kind", adj.Kind.String()),
		zap.String("entity_id", adj.EntityID.String()),
		zap.String("reason", string(adj.Reason)),
		zap.String("source", adj.Source.Type.String()+":"+adj.Source.ID),
		zap.String("delta", delta.String()),
		zap.String("balance_before", before.String()),
		zap.String("balance_after", after.String()),
	)

	return entry, nil
}

// ApplyAll applies a set of adjustments in order, failing fast. Callers run
// it inside one transaction so a failure rolls every prior adjustment back.
func (l *Ledger) ApplyAll(ctx context.Context, tenantID uuid.UUID, adjs []Adjustment) error {
	for _, adj := range adjs {
		if _, err := l.Adjust(ctx, tenantID, adj); err != nil {
			return err
		}
	}
	return nil
}

// ReverseBySource undoes every balance effect a source document produced.
// It sums the document's entries per account and applies one inverse
// adjustment each, recorded against the same source. After a reversal the
// document's net is zero, so reversing again is a no-op.
func (l *Ledger) ReverseBySource(ctx context.Context, tenantID uuid.UUID, source ledger.Source, operatorID *uuid.UUID) error {
	nets, err := l.entries.NetBySource(ctx, tenantID, source)
	if err != nil {
		return err
	}

	for _, net := range nets {
		if net.Net.IsZero() {
			continue
		}
		intent := ledger.IntentDecrease
		if net.Net.IsNegative() {
			intent = ledger.IntentIncrease
		}
		adj := Adjustment{
			Kind:       net.Kind,
			EntityID:   net.EntityID,
			Amount:     net.Net.Abs(),
			Intent:     intent,
			Reason:     ledger.ReasonReversal,
			Source:     source,
			OperatorID: operatorID,
		}
		if _, err := l.Adjust(ctx, tenantID, adj); err != nil {
			return err
		}
	}
	return nil
}

func validateAdjustment(adj Adjustment) error {
	if !adj.Kind.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_KIND", "Invalid ledger account kind")
	}
	if adj.EntityID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENTITY", "Entity ID cannot be empty")
	}
	if adj.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Adjustment amount must be positive")
	}
	if !adj.Intent.IsValid() {
		return shared.NewDomainError("INVALID_INTENT", "Invalid adjustment intent")
	}
	if !adj.Reason.IsValid() {
		return shared.NewDomainError("INVALID_REASON", "Invalid ledger reason")
	}
	if !adj.Source.Type.IsValid() || adj.Source.ID == "" {
		return shared.NewDomainError("INVALID_SOURCE", "Source type and ID are required")
	}
	return nil
}
