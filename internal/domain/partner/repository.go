package partner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/udyog/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID regardless of tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForTenant finds a customer by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)

	// FindAllForTenant finds all customers for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// FindWithOutstanding finds customers with a non-zero outstanding amount
	FindWithOutstanding(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// DeleteForTenant deletes a customer within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts customers matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// PaymentHistoryFilter narrows payment history queries
type PaymentHistoryFilter struct {
	shared.Filter
	CustomerID  *uuid.UUID
	IsReceived  *bool
	PaymentType *PaymentType
	DateFrom    *time.Time
	DateTo      *time.Time
}

// PaymentHistoryRepository defines the interface for payment record persistence
type PaymentHistoryRepository interface {
	// FindByID finds a payment record by its ID regardless of tenant
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentHistory, error)

	// FindByIDForTenant finds a payment record by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentHistory, error)

	// FindByCustomer finds payment records for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter PaymentHistoryFilter) ([]PaymentHistory, int64, error)

	// Save creates or updates a payment record
	Save(ctx context.Context, payment *PaymentHistory) error

	// DeleteForTenant deletes a payment record within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
