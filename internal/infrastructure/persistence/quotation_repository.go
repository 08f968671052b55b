package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/domain/quotation"
	"github.com/udyog/backend/internal/domain/shared"
)

// GormQuotationRepository implements quotation.Repository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID with items preloaded
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	var q quotation.Quotation
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByIDForTenant finds a quotation by ID within a tenant with items preloaded
func (r *GormQuotationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*quotation.Quotation, error) {
	var q quotation.Quotation
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindAllForTenant finds quotations for a tenant
func (r *GormQuotationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter quotation.Filter) ([]quotation.Quotation, int64, error) {
	query := r.db.WithContext(ctx).Model(&quotation.Quotation{}).Where("tenant_id = ?", tenantID)

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("quotation_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("quotation_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quotations []quotation.Quotation
	if err := paginate(query.Preload("Items").Order("quotation_date DESC"), filter.Filter).
		Find(&quotations).Error; err != nil {
		return nil, 0, err
	}
	return quotations, total, nil
}

// SaveWithItems saves a quotation and replaces its items wholesale
func (r *GormQuotationRepository) SaveWithItems(ctx context.Context, q *quotation.Quotation) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit("Items").Save(q).Error; err != nil {
		return err
	}
	if err := db.Where("quotation_id = ?", q.ID).Delete(&quotation.Item{}).Error; err != nil {
		return err
	}
	if len(q.Items) == 0 {
		return nil
	}
	for i := range q.Items {
		q.Items[i].QuotationID = q.ID
	}
	return db.Create(&q.Items).Error
}

// Save updates the quotation header only
func (r *GormQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	return r.db.WithContext(ctx).Omit("Items").Save(q).Error
}

// DeleteForTenant deletes a quotation and its items within a tenant
func (r *GormQuotationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	result := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&quotation.Quotation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return db.Where("quotation_id = ?", id).Delete(&quotation.Item{}).Error
}

var _ quotation.Repository = (*GormQuotationRepository)(nil)
