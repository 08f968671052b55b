package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// Shift is the working shift a batch ran on
type Shift string

const (
	ShiftDay   Shift = "DAY"
	ShiftNight Shift = "NIGHT"
)

// IsValid returns true if the shift is valid
func (s Shift) IsValid() bool {
	return s == ShiftDay || s == ShiftNight
}

// String returns the string representation of Shift
func (s Shift) String() string {
	return string(s)
}

// Machine is a production machine a batch runs on
type Machine struct {
	shared.TenantEntity
	Name   string `gorm:"size:255;not null"`
	Code   string `gorm:"size:64"`
	Remark string `gorm:"size:512"`
}

// TableName returns the table name for GORM
func (Machine) TableName() string {
	return "machines"
}

// NewMachine creates a new machine for a tenant
func NewMachine(tenantID uuid.UUID, name string) (*Machine, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Machine name cannot be empty")
	}
	return &Machine{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
	}, nil
}

// MixerItem is raw material consumed by a batch. Rows are replaced wholesale
// on every batch upsert; their stock effects live in the ledger keyed by the
// batch document, so deletion never loses the ability to revert.
type MixerItem struct {
	shared.BaseEntity
	BatchID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (MixerItem) TableName() string {
	return "batch_mixer_items"
}

// ProductionItem is finished product yielded by a batch
type ProductionItem struct {
	shared.BaseEntity
	BatchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NumberOfRoll int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductionItem) TableName() string {
	return "batch_production_items"
}

// Batch is one production run on a date/shift/machine. It consumes mixer
// items and yields production items, and tracks bag usage counters for the
// two bag stocks the plant keeps (resign and CPW).
type Batch struct {
	shared.TenantEntity
	Name                  string          `gorm:"size:32;not null;index"`
	BatchDate             time.Time       `gorm:"not null;index"`
	Shift                 Shift           `gorm:"size:8;not null"`
	MachineID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	ResignBagUse          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ResignBagOpeningStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CpwBagUse             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CpwBagOpeningStock    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	Mixers      []MixerItem      `gorm:"foreignKey:BatchID;references:ID"`
	Productions []ProductionItem `gorm:"foreignKey:BatchID;references:ID"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates a new batch shell; line items and the generated name are
// filled in by the reconciler.
func NewBatch(tenantID, machineID uuid.UUID, batchDate time.Time, shift Shift) (*Batch, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if machineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MACHINE", "Machine ID cannot be empty")
	}
	if batchDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Batch date is required")
	}
	if !shift.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIFT", "Invalid shift")
	}

	return &Batch{
		TenantEntity: shared.NewTenantEntity(tenantID),
		BatchDate:    batchDate,
		Shift:        shift,
		MachineID:    machineID,
		Mixers:       make([]MixerItem, 0),
		Productions:  make([]ProductionItem, 0),
	}, nil
}

// BatchName builds the generated batch name: the batch date in yyyyMMdd form
// followed by a 3-digit per-tenant per-date sequence number.
func BatchName(date time.Time, seq int64) string {
	return fmt.Sprintf("%s%03d", date.Format("20060102"), seq)
}

// SourceID returns the batch ID in the form ledger entries use as source id
func (b *Batch) SourceID() string {
	return b.ID.String()
}
