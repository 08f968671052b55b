package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// AccountKind identifies which running balance an entry mutates
type AccountKind string

const (
	// AccountProductStock is Product.RemainingQuantity
	AccountProductStock AccountKind = "PRODUCT_STOCK"
	// AccountCustomerBalance is Customer.RemainingPaymentAmount
	AccountCustomerBalance AccountKind = "CUSTOMER_BALANCE"
)

// IsValid returns true if the account kind is valid
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountProductStock, AccountCustomerBalance:
		return true
	}
	return false
}

// String returns the string representation of AccountKind
func (k AccountKind) String() string {
	return string(k)
}

// Intent is the direction of a balance adjustment
type Intent string

const (
	IntentIncrease Intent = "INCREASE"
	IntentDecrease Intent = "DECREASE"
)

// IsValid returns true if the intent is valid
func (i Intent) IsValid() bool {
	return i == IntentIncrease || i == IntentDecrease
}

// Reason records why a balance moved
type Reason string

const (
	ReasonPurchase     Reason = "PURCHASE"
	ReasonSale         Reason = "SALE"
	ReasonPayment      Reason = "PAYMENT"
	ReasonBatchConsume Reason = "BATCH_CONSUME"
	ReasonBatchProduce Reason = "BATCH_PRODUCE"
	ReasonReversal     Reason = "REVERSAL"
	ReasonAdjustment   Reason = "ADJUSTMENT"
)

// IsValid returns true if the reason is valid
func (r Reason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonPayment,
		ReasonBatchConsume, ReasonBatchProduce,
		ReasonReversal, ReasonAdjustment:
		return true
	}
	return false
}

// SourceType identifies the kind of document that drove a mutation
type SourceType string

const (
	SourcePurchase  SourceType = "PURCHASE"
	SourceSale      SourceType = "SALE"
	SourcePayment   SourceType = "PAYMENT"
	SourceBatch     SourceType = "BATCH"
	SourceQuotation SourceType = "QUOTATION"
	SourceManual    SourceType = "MANUAL"
)

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourcePurchase, SourceSale, SourcePayment, SourceBatch, SourceQuotation, SourceManual:
		return true
	}
	return false
}

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// Source names the document responsible for a mutation
type Source struct {
	Type SourceType
	ID   string
}

// Entry is an immutable record of one balance mutation. Entries are
// append-only: corrections are made with reversal entries, never updates.
// The set of entries for a source document is the authoritative memory of
// that document's balance effects; reversal replays their net inverse
// instead of trusting caller-supplied magnitudes.
type Entry struct {
	shared.TenantEntity
	Kind          AccountKind     `gorm:"size:32;not null;index:idx_ledger_account,priority:1"`
	EntityID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_account,priority:2"`
	Delta         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        Reason          `gorm:"size:32;not null"`
	SourceType    SourceType      `gorm:"size:32;not null;index:idx_ledger_source,priority:1"`
	SourceID      string          `gorm:"size:64;not null;index:idx_ledger_source,priority:2"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OperatorID    *uuid.UUID      `gorm:"type:uuid"`
	EntryDate     time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "ledger_entries"
}

// NewEntry creates a validated ledger entry
func NewEntry(
	tenantID uuid.UUID,
	kind AccountKind,
	entityID uuid.UUID,
	delta decimal.Decimal,
	reason Reason,
	source Source,
	balanceBefore, balanceAfter decimal.Decimal,
) (*Entry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_KIND", "Invalid ledger account kind")
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Entity ID cannot be empty")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_DELTA", "Delta cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Invalid ledger reason")
	}
	if !source.Type.IsValid() || source.ID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source type and ID are required")
	}
	if !balanceBefore.Add(delta).Equal(balanceAfter) {
		return nil, shared.NewDomainError("INCONSISTENT_ENTRY", "Balance after must equal balance before plus delta")
	}

	return &Entry{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		Kind:          kind,
		EntityID:      entityID,
		Delta:         delta,
		Reason:        reason,
		SourceType:    source.Type,
		SourceID:      source.ID,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		EntryDate:     time.Now(),
	}, nil
}

// WithOperator records the acting user on the entry
func (e *Entry) WithOperator(operatorID uuid.UUID) *Entry {
	e.OperatorID = &operatorID
	return e
}

// AccountDelta is the net effect of a set of entries on one account
type AccountDelta struct {
	Kind     AccountKind
	EntityID uuid.UUID
	Net      decimal.Decimal
}
