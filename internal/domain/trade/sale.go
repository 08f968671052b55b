package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// SaleItem is a line on a sale document
type SaleItem struct {
	shared.BaseEntity
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a sale line with the amount derived
func NewSaleItem(saleID, productID uuid.UUID, quantity, unitPrice decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &SaleItem{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     saleID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Amount:     quantity.Mul(unitPrice),
	}, nil
}

// Sale is goods sold to a customer. Each line consumes stock and the
// document total raises the customer's outstanding amount.
type Sale struct {
	shared.TenantEntity
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleDate      time.Time       `gorm:"not null;index"`
	InvoiceNumber string          `gorm:"size:64"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark        string          `gorm:"size:512"`

	Items []SaleItem `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a sale document shell
func NewSale(tenantID, customerID uuid.UUID, saleDate time.Time) (*Sale, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	return &Sale{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		SaleDate:     saleDate,
		TotalAmount:  decimal.Zero,
		Items:        make([]SaleItem, 0),
	}, nil
}

// AddItem appends a line and keeps the total in sync
func (s *Sale) AddItem(productID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	item, err := NewSaleItem(s.ID, productID, quantity, unitPrice)
	if err != nil {
		return err
	}
	s.Items = append(s.Items, *item)
	s.TotalAmount = s.TotalAmount.Add(item.Amount)
	return nil
}

// SourceID returns the sale ID in the form ledger entries use as source id
func (s *Sale) SourceID() string {
	return s.ID.String()
}
