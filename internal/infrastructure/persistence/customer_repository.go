package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/shared"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAllForTenant finds all customers for a tenant
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	query = searchClause(query, filter, "name", "phone")
	query = paginate(query.Order(orderClause(filter)), filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindWithOutstanding finds customers with a non-zero outstanding amount
func (r *GormCustomerRepository) FindWithOutstanding(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remaining_payment_amount <> 0", tenantID)
	query = searchClause(query, filter, "name", "phone")
	query = paginate(query.Order(orderClause(filter)), filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// DeleteForTenant deletes a customer within a tenant
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&partner.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts customers matching the filter
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID)
	query = searchClause(query, filter, "name", "phone")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

// GormPaymentHistoryRepository implements partner.PaymentHistoryRepository using GORM
type GormPaymentHistoryRepository struct {
	db *gorm.DB
}

// NewGormPaymentHistoryRepository creates a new GormPaymentHistoryRepository
func NewGormPaymentHistoryRepository(db *gorm.DB) *GormPaymentHistoryRepository {
	return &GormPaymentHistoryRepository{db: db}
}

// FindByID finds a payment record by its ID
func (r *GormPaymentHistoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.PaymentHistory, error) {
	var payment partner.PaymentHistory
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByIDForTenant finds a payment record by ID within a tenant
func (r *GormPaymentHistoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.PaymentHistory, error) {
	var payment partner.PaymentHistory
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByCustomer finds payment records for a customer
func (r *GormPaymentHistoryRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter partner.PaymentHistoryFilter) ([]partner.PaymentHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.PaymentHistory{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	if filter.IsReceived != nil {
		query = query.Where("is_received = ?", *filter.IsReceived)
	}
	if filter.PaymentType != nil {
		query = query.Where("payment_type = ?", *filter.PaymentType)
	}
	if filter.DateFrom != nil {
		query = query.Where("payment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("payment_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []partner.PaymentHistory
	if err := paginate(query.Order("payment_date DESC"), filter.Filter).Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// Save creates or updates a payment record
func (r *GormPaymentHistoryRepository) Save(ctx context.Context, payment *partner.PaymentHistory) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// DeleteForTenant deletes a payment record within a tenant
func (r *GormPaymentHistoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&partner.PaymentHistory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.PaymentHistoryRepository = (*GormPaymentHistoryRepository)(nil)
