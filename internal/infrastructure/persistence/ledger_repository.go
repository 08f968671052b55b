package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/shared"
)

// balanceColumn maps each account kind to the table and column holding its
// running balance
type balanceColumn struct {
	table  string
	column string
}

var balanceColumns = map[ledger.AccountKind]balanceColumn{
	ledger.AccountProductStock:    {table: "products", column: "remaining_quantity"},
	ledger.AccountCustomerBalance: {table: "customers", column: "remaining_payment_amount"},
}

// GormBalanceStore implements ledger.BalanceStore over the balance columns
// of the owning tables. LoadForUpdate takes a SELECT ... FOR UPDATE row lock
// so the read-modify-write in the ledger is serialized across processes for
// the remainder of the enclosing transaction. A NULL stored balance reads as
// zero.
type GormBalanceStore struct {
	db *gorm.DB
}

// NewGormBalanceStore creates a new GormBalanceStore
func NewGormBalanceStore(db *gorm.DB) *GormBalanceStore {
	return &GormBalanceStore{db: db}
}

type balanceRow struct {
	TenantID uuid.UUID
	Balance  decimal.NullDecimal
}

// LoadForUpdate loads the account snapshot under a row-level write lock
func (s *GormBalanceStore) LoadForUpdate(ctx context.Context, kind ledger.AccountKind, entityID uuid.UUID) (*ledger.Account, error) {
	col, ok := balanceColumns[kind]
	if !ok {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_KIND", "Invalid ledger account kind")
	}

	query := s.db.WithContext(ctx).
		Table(col.table).
		Select("tenant_id, " + col.column + " AS balance").
		Where("id = ?", entityID)
	// sqlite has a single writer and rejects the locking clause
	if s.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row balanceRow
	err := query.Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	balance := decimal.Zero
	if row.Balance.Valid {
		balance = row.Balance.Decimal
	}

	return &ledger.Account{
		Kind:     kind,
		EntityID: entityID,
		TenantID: row.TenantID,
		Balance:  balance,
	}, nil
}

// UpdateBalance writes the new balance for the account
func (s *GormBalanceStore) UpdateBalance(ctx context.Context, kind ledger.AccountKind, entityID uuid.UUID, balance decimal.Decimal) error {
	col, ok := balanceColumns[kind]
	if !ok {
		return shared.NewDomainError("INVALID_ACCOUNT_KIND", "Invalid ledger account kind")
	}

	result := s.db.WithContext(ctx).
		Table(col.table).
		Where("id = ?", entityID).
		Update(col.column, balance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ ledger.BalanceStore = (*GormBalanceStore)(nil)

// GormEntryRepository implements ledger.EntryRepository using GORM. The
// table is append-only; the repository exposes no update or delete.
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Create appends a new entry
func (r *GormEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindBySource finds all entries produced by a source document
func (r *GormEntryRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source ledger.Source) ([]ledger.Entry, error) {
	var entries []ledger.Entry
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, source.Type, source.ID).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByEntity finds entries for one account, newest first
func (r *GormEntryRepository) FindByEntity(ctx context.Context, tenantID uuid.UUID, kind ledger.AccountKind, entityID uuid.UUID, filter ledger.EntryFilter) ([]ledger.Entry, int64, error) {
	query := r.db.WithContext(ctx).Model(&ledger.Entry{}).
		Where("tenant_id = ? AND kind = ? AND entity_id = ?", tenantID, kind, entityID)

	if filter.Reason != nil {
		query = query.Where("reason = ?", *filter.Reason)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []ledger.Entry
	if err := paginate(query.Order("entry_date DESC"), filter.Filter).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// NetBySource sums entry deltas per account for a source document
func (r *GormEntryRepository) NetBySource(ctx context.Context, tenantID uuid.UUID, source ledger.Source) ([]ledger.AccountDelta, error) {
	type netRow struct {
		Kind     ledger.AccountKind
		EntityID uuid.UUID
		Net      decimal.Decimal
	}

	var rows []netRow
	if err := r.db.WithContext(ctx).Model(&ledger.Entry{}).
		Select("kind, entity_id, SUM(delta) AS net").
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, source.Type, source.ID).
		Group("kind, entity_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	nets := make([]ledger.AccountDelta, 0, len(rows))
	for _, row := range rows {
		nets = append(nets, ledger.AccountDelta{
			Kind:     row.Kind,
			EntityID: row.EntityID,
			Net:      row.Net,
		})
	}
	return nets, nil
}

var _ ledger.EntryRepository = (*GormEntryRepository)(nil)
