package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/shared"
)

// GormMachineRepository implements production.MachineRepository using GORM
type GormMachineRepository struct {
	db *gorm.DB
}

// NewGormMachineRepository creates a new GormMachineRepository
func NewGormMachineRepository(db *gorm.DB) *GormMachineRepository {
	return &GormMachineRepository{db: db}
}

// FindByID finds a machine by its ID
func (r *GormMachineRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Machine, error) {
	var machine production.Machine
	if err := r.db.WithContext(ctx).First(&machine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &machine, nil
}

// FindByIDForTenant finds a machine by ID within a tenant
func (r *GormMachineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Machine, error) {
	var machine production.Machine
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&machine).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &machine, nil
}

// FindAllForTenant finds all machines for a tenant
func (r *GormMachineRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]production.Machine, error) {
	var machines []production.Machine
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	query = searchClause(query, filter, "name", "code")
	query = paginate(query.Order(orderClause(filter)), filter)
	if err := query.Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

// Save creates or updates a machine
func (r *GormMachineRepository) Save(ctx context.Context, machine *production.Machine) error {
	return r.db.WithContext(ctx).Save(machine).Error
}

// DeleteForTenant deletes a machine within a tenant
func (r *GormMachineRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&production.Machine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts machines matching the filter
func (r *GormMachineRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&production.Machine{}).Where("tenant_id = ?", tenantID)
	query = searchClause(query, filter, "name", "code")
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ production.MachineRepository = (*GormMachineRepository)(nil)

// GormBatchRepository implements production.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID with line items preloaded
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).
		Preload("Mixers").Preload("Productions").
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForTenant finds a batch by ID within a tenant with line items preloaded
func (r *GormBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Batch, error) {
	var batch production.Batch
	if err := r.db.WithContext(ctx).
		Preload("Mixers").Preload("Productions").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAllForTenant finds batches for a tenant
func (r *GormBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter production.BatchFilter) ([]production.Batch, int64, error) {
	query := r.db.WithContext(ctx).Model(&production.Batch{}).Where("tenant_id = ?", tenantID)

	if filter.MachineID != nil {
		query = query.Where("machine_id = ?", *filter.MachineID)
	}
	if filter.Shift != nil {
		query = query.Where("shift = ?", *filter.Shift)
	}
	if filter.DateFrom != nil {
		query = query.Where("batch_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("batch_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var batches []production.Batch
	if err := paginate(query.Preload("Mixers").Preload("Productions").Order("batch_date DESC, name DESC"), filter.Filter).
		Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// CountByDate counts batches for a tenant on a calendar date
func (r *GormBatchRepository) CountByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	if err := r.db.WithContext(ctx).Model(&production.Batch{}).
		Where("tenant_id = ? AND batch_date >= ? AND batch_date < ?", tenantID, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates the batch header. Line item associations are
// managed through ReplaceItems, not through GORM's association autosave.
func (r *GormBatchRepository) Save(ctx context.Context, batch *production.Batch) error {
	return r.db.WithContext(ctx).Omit("Mixers", "Productions").Save(batch).Error
}

// ReplaceItems deletes all line items for the batch and inserts the given ones
func (r *GormBatchRepository) ReplaceItems(ctx context.Context, batchID uuid.UUID, mixers []production.MixerItem, productions []production.ProductionItem) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("batch_id = ?", batchID).Delete(&production.MixerItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("batch_id = ?", batchID).Delete(&production.ProductionItem{}).Error; err != nil {
		return err
	}
	if len(mixers) > 0 {
		if err := db.Create(&mixers).Error; err != nil {
			return err
		}
	}
	if len(productions) > 0 {
		if err := db.Create(&productions).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteForTenant deletes a batch and its line items within a tenant
func (r *GormBatchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	result := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&production.Batch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}

	if err := db.Where("batch_id = ?", id).Delete(&production.MixerItem{}).Error; err != nil {
		return err
	}
	return db.Where("batch_id = ?", id).Delete(&production.ProductionItem{}).Error
}

var _ production.BatchRepository = (*GormBatchRepository)(nil)
