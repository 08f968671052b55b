package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// PurchaseItem is a line on a purchase document
type PurchaseItem struct {
	shared.BaseEntity
	PurchaseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// NewPurchaseItem creates a purchase line with the amount derived
func NewPurchaseItem(purchaseID, productID uuid.UUID, quantity, unitPrice decimal.Decimal) (*PurchaseItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &PurchaseItem{
		BaseEntity: shared.NewBaseEntity(),
		PurchaseID: purchaseID,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Amount:     quantity.Mul(unitPrice),
	}, nil
}

// Purchase is goods bought from a supplier party. Each line adds stock and
// the document total is owed to the party, so the party's outstanding
// amount goes down (the business owes them until settled).
type Purchase struct {
	shared.TenantEntity
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseDate  time.Time       `gorm:"not null;index"`
	InvoiceNumber string          `gorm:"size:64"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark        string          `gorm:"size:512"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}

// NewPurchase creates a purchase document shell
func NewPurchase(tenantID, customerID uuid.UUID, purchaseDate time.Time) (*Purchase, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	return &Purchase{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		PurchaseDate: purchaseDate,
		TotalAmount:  decimal.Zero,
		Items:        make([]PurchaseItem, 0),
	}, nil
}

// AddItem appends a line and keeps the total in sync
func (p *Purchase) AddItem(productID uuid.UUID, quantity, unitPrice decimal.Decimal) error {
	item, err := NewPurchaseItem(p.ID, productID, quantity, unitPrice)
	if err != nil {
		return err
	}
	p.Items = append(p.Items, *item)
	p.TotalAmount = p.TotalAmount.Add(item.Amount)
	return nil
}

// SourceID returns the purchase ID in the form ledger entries use as source id
func (p *Purchase) SourceID() string {
	return p.ID.String()
}
