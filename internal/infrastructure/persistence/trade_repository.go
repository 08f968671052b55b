package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/domain/shared"
	"github.com/udyog/backend/internal/domain/trade"
)

// GormPurchaseRepository implements trade.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID with items preloaded
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByIDForTenant finds a purchase by ID within a tenant with items preloaded
func (r *GormPurchaseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAllForTenant finds purchases for a tenant
func (r *GormPurchaseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.DocumentFilter) ([]trade.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Purchase{}).Where("tenant_id = ?", tenantID)
	query = applyDocumentFilter(query, filter, "purchase_date")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []trade.Purchase
	if err := paginate(query.Preload("Items").Order("purchase_date DESC"), filter.Filter).
		Find(&purchases).Error; err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// SaveWithItems saves a purchase and replaces its items wholesale
func (r *GormPurchaseRepository) SaveWithItems(ctx context.Context, purchase *trade.Purchase) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit("Items").Save(purchase).Error; err != nil {
		return err
	}
	if err := db.Where("purchase_id = ?", purchase.ID).Delete(&trade.PurchaseItem{}).Error; err != nil {
		return err
	}
	if len(purchase.Items) == 0 {
		return nil
	}
	for i := range purchase.Items {
		purchase.Items[i].PurchaseID = purchase.ID
	}
	return db.Create(&purchase.Items).Error
}

// DeleteForTenant deletes a purchase and its items within a tenant
func (r *GormPurchaseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	result := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&trade.Purchase{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return db.Where("purchase_id = ?", id).Delete(&trade.PurchaseItem{}).Error
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID with items preloaded
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForTenant finds a sale by ID within a tenant with items preloaded
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAllForTenant finds sales for a tenant
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter trade.DocumentFilter) ([]trade.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Sale{}).Where("tenant_id = ?", tenantID)
	query = applyDocumentFilter(query, filter, "sale_date")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []trade.Sale
	if err := paginate(query.Preload("Items").Order("sale_date DESC"), filter.Filter).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// SaveWithItems saves a sale and replaces its items wholesale
func (r *GormSaleRepository) SaveWithItems(ctx context.Context, sale *trade.Sale) error {
	db := r.db.WithContext(ctx)

	if err := db.Omit("Items").Save(sale).Error; err != nil {
		return err
	}
	if err := db.Where("sale_id = ?", sale.ID).Delete(&trade.SaleItem{}).Error; err != nil {
		return err
	}
	if len(sale.Items) == 0 {
		return nil
	}
	for i := range sale.Items {
		sale.Items[i].SaleID = sale.ID
	}
	return db.Create(&sale.Items).Error
}

// DeleteForTenant deletes a sale and its items within a tenant
func (r *GormSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	result := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&trade.Sale{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return db.Where("sale_id = ?", id).Delete(&trade.SaleItem{}).Error
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)

func applyDocumentFilter(query *gorm.DB, filter trade.DocumentFilter, dateColumn string) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DateFrom != nil {
		query = query.Where(dateColumn+" >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where(dateColumn+" <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}
