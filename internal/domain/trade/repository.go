package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/udyog/backend/internal/domain/shared"
)

// DocumentFilter narrows purchase and sale queries
type DocumentFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase by its ID regardless of tenant, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindByIDForTenant finds a purchase by ID within a tenant, items included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)

	// FindAllForTenant finds purchases for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]Purchase, int64, error)

	// SaveWithItems saves a purchase and replaces its items wholesale
	SaveWithItems(ctx context.Context, purchase *Purchase) error

	// DeleteForTenant deletes a purchase and its items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale by its ID regardless of tenant, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIDForTenant finds a sale by ID within a tenant, items included
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// FindAllForTenant finds sales for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]Sale, int64, error)

	// SaveWithItems saves a sale and replaces its items wholesale
	SaveWithItems(ctx context.Context, sale *Sale) error

	// DeleteForTenant deletes a sale and its items within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
