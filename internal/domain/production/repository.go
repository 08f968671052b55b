package production

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/udyog/backend/internal/domain/shared"
)

// MachineRepository defines the interface for machine persistence
type MachineRepository interface {
	// FindByID finds a machine by its ID regardless of tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Machine, error)

	// FindByIDForTenant finds a machine by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Machine, error)

	// FindAllForTenant finds all machines for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Machine, error)

	// Save creates or updates a machine
	Save(ctx context.Context, machine *Machine) error

	// DeleteForTenant deletes a machine within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts machines matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// BatchFilter narrows batch queries
type BatchFilter struct {
	shared.Filter
	MachineID *uuid.UUID
	Shift     *Shift
	DateFrom  *time.Time
	DateTo    *time.Time
}

// BatchRepository defines the interface for batch persistence
type BatchRepository interface {
	// FindByID finds a batch by its ID regardless of tenant, line items included
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByIDForTenant finds a batch by ID within a tenant, line items included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Batch, error)

	// FindAllForTenant finds batches for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter BatchFilter) ([]Batch, int64, error)

	// CountByDate counts batches for a tenant on a calendar date. The batch
	// name sequence is derived from this count.
	CountByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error)

	// Save creates or updates the batch header
	Save(ctx context.Context, batch *Batch) error

	// ReplaceItems deletes all existing mixer and production rows for the
	// batch and inserts the given ones
	ReplaceItems(ctx context.Context, batchID uuid.UUID, mixers []MixerItem, productions []ProductionItem) error

	// DeleteForTenant deletes a batch and its line items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
