package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// Product represents a stockable item (raw material or finished good).
//
// RemainingQuantity is the sole authoritative stock count. It is mutated
// exclusively through the ledger (see internal/domain/ledger); services must
// never assign it directly. Negative quantities are permitted: the business
// accepts overselling and corrects through later purchases or adjustments.
type Product struct {
	shared.TenantEntity
	Name              string          `gorm:"size:255;not null"`
	Code              string          `gorm:"size:64;index"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	Unit              string          `gorm:"size:32"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SalePrice         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark            string          `gorm:"size:512"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a tenant
func NewProduct(tenantID uuid.UUID, name string) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	return &Product{
		TenantEntity:      shared.NewTenantEntity(tenantID),
		Name:              strings.TrimSpace(name),
		RemainingQuantity: decimal.Zero,
		MinimumStock:      decimal.Zero,
		PurchasePrice:     decimal.Zero,
		SalePrice:         decimal.Zero,
	}, nil
}

// SetMinimumStock sets the minimum stock threshold for low-stock alerts
func (p *Product) SetMinimumStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}
	p.MinimumStock = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// IsBelowMinimum returns true if the remaining quantity is below the minimum threshold
func (p *Product) IsBelowMinimum() bool {
	return p.MinimumStock.GreaterThan(decimal.Zero) && p.RemainingQuantity.LessThan(p.MinimumStock)
}

// Category groups products for reporting and navigation
type Category struct {
	shared.TenantEntity
	Name   string `gorm:"size:255;not null"`
	Remark string `gorm:"size:512"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category for a tenant
func NewCategory(tenantID uuid.UUID, name string) (*Category, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}

	return &Category{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
	}, nil
}
