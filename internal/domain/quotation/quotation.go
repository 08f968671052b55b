package quotation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// Item is a quotation line. Pricing follows a deliberate business rule:
// no line-level discount is applied to the base price. The document-level
// discount percentage reduces ONLY the computed tax amount, never the
// subtotal, so FinalPrice = SubTotal + TaxAmount*(1 - discount/100).
type Item struct {
	shared.BaseEntity
	QuotationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	BrandID       *uuid.UUID      `gorm:"type:uuid"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	NumberOfRoll  *int            `gorm:""`
	WeightPerRoll decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountedTax decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	FinalPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "quotation_items"
}

var oneHundred = decimal.NewFromInt(100)

// NewItem creates a quotation line and computes its amounts.
// discountPercentage is the document-level discount; it is applied to the
// tax amount only.
func NewItem(quotationID, productID uuid.UUID, quantity, unitPrice, taxPercentage, discountPercentage decimal.Decimal) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if taxPercentage.IsNegative() || taxPercentage.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("INVALID_TAX", "Tax percentage must be between 0 and 100")
	}
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}

	item := &Item{
		BaseEntity:    shared.NewBaseEntity(),
		QuotationID:   quotationID,
		ProductID:     productID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TaxPercentage: taxPercentage,
	}
	item.compute(discountPercentage)
	return item, nil
}

// compute fills the derived amounts from the stored inputs
func (i *Item) compute(discountPercentage decimal.Decimal) {
	i.SubTotal = i.UnitPrice.Mul(i.Quantity)
	i.TaxAmount = i.SubTotal.Mul(i.TaxPercentage).Div(oneHundred)
	i.DiscountedTax = i.TaxAmount.Mul(oneHundred.Sub(discountPercentage)).Div(oneHundred)
	i.FinalPrice = i.SubTotal.Add(i.DiscountedTax)
}

// TaxDiscountAmount returns how much tax the document discount removed
func (i *Item) TaxDiscountAmount() decimal.Decimal {
	return i.TaxAmount.Sub(i.DiscountedTax)
}

// Quotation is a priced offer to a customer. Totals are derived from the
// items plus a flat packaging-and-forwarding charge added once per document.
type Quotation struct {
	shared.TenantEntity
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuotationDate      time.Time       `gorm:"not null"`
	Status             Status          `gorm:"size:4;not null;default:'Q'"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	PackagingCharge    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalSubTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalTax           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDiscount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark             string          `gorm:"size:512"`

	Items []Item `gorm:"foreignKey:QuotationID;references:ID"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates an empty quotation in the Quote state
func NewQuotation(tenantID, customerID uuid.UUID, quotationDate time.Time, discountPercentage, packagingCharge decimal.Decimal) (*Quotation, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if discountPercentage.IsNegative() || discountPercentage.GreaterThan(oneHundred) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}
	if packagingCharge.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CHARGE", "Packaging charge cannot be negative")
	}
	if quotationDate.IsZero() {
		quotationDate = time.Now()
	}

	return &Quotation{
		TenantEntity:       shared.NewTenantEntity(tenantID),
		CustomerID:         customerID,
		QuotationDate:      quotationDate,
		Status:             StatusQuote,
		DiscountPercentage: discountPercentage,
		PackagingCharge:    packagingCharge,
		Items:              make([]Item, 0),
	}, nil
}

// AddItem creates a line from the inputs and appends it
func (q *Quotation) AddItem(productID uuid.UUID, brandID *uuid.UUID, quantity, unitPrice, taxPercentage decimal.Decimal, numberOfRoll *int, weightPerRoll decimal.Decimal) error {
	item, err := NewItem(q.ID, productID, quantity, unitPrice, taxPercentage, q.DiscountPercentage)
	if err != nil {
		return err
	}
	item.BrandID = brandID
	item.NumberOfRoll = numberOfRoll
	if !weightPerRoll.IsNegative() {
		item.WeightPerRoll = weightPerRoll
	}
	q.Items = append(q.Items, *item)
	return nil
}

// Recalculate aggregates item amounts into the document totals.
// The grand total adds the flat packaging charge once and rounds to whole
// currency units, half up.
func (q *Quotation) Recalculate() {
	q.TotalSubTotal = decimal.Zero
	q.TotalTax = decimal.Zero
	q.TotalDiscount = decimal.Zero
	total := decimal.Zero

	for idx := range q.Items {
		item := &q.Items[idx]
		q.TotalSubTotal = q.TotalSubTotal.Add(item.SubTotal)
		q.TotalTax = q.TotalTax.Add(item.TaxAmount)
		q.TotalDiscount = q.TotalDiscount.Add(item.TaxDiscountAmount())
		total = total.Add(item.FinalPrice)
	}

	q.GrandTotal = total.Add(q.PackagingCharge).Round(0)
	q.UpdatedAt = time.Now()
}

// TransitionTo moves the quotation to the target status if the state
// machine allows it.
func (q *Quotation) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid quotation status")
	}
	if !q.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_TRANSITION",
			"Cannot transition quotation from "+q.Status.Label()+" to "+target.Label())
	}
	q.Status = target
	q.UpdatedAt = time.Now()
	return nil
}
