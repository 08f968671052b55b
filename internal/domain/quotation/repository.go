package quotation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/udyog/backend/internal/domain/shared"
)

// Filter narrows quotation queries
type Filter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Repository defines the interface for quotation persistence
type Repository interface {
	// FindByID finds a quotation by its ID regardless of tenant, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByIDForTenant finds a quotation by ID within a tenant, items included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Quotation, error)

	// FindAllForTenant finds quotations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Quotation, int64, error)

	// SaveWithItems saves a quotation and replaces its items wholesale
	SaveWithItems(ctx context.Context, q *Quotation) error

	// Save updates the quotation header only
	Save(ctx context.Context, q *Quotation) error

	// DeleteForTenant deletes a quotation and its items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
