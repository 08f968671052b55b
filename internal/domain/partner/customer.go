package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/shared"
)

// Customer represents a trading party: a buyer of finished goods, a supplier
// of raw material, or both. The original business tracks both under one roof.
//
// RemainingPaymentAmount is the outstanding balance between the business and
// the customer. Sign convention: positive means the customer owes the business.
// It may go negative (business owes the customer); no floor is enforced.
// All mutation goes through the ledger, never by direct assignment.
type Customer struct {
	shared.TenantEntity
	Name                   string          `gorm:"size:255;not null"`
	Phone                  string          `gorm:"size:32;index"`
	Email                  string          `gorm:"size:255"`
	Address                string          `gorm:"size:512"`
	GSTNumber              string          `gorm:"size:32"`
	RemainingPaymentAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Remark                 string          `gorm:"size:512"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer for a tenant
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	return &Customer{
		TenantEntity:           shared.NewTenantEntity(tenantID),
		Name:                   strings.TrimSpace(name),
		RemainingPaymentAmount: decimal.Zero,
	}, nil
}

// OwesBusiness returns true when the customer owes the business money
func (c *Customer) OwesBusiness() bool {
	return c.RemainingPaymentAmount.GreaterThan(decimal.Zero)
}

// PaymentType is the settlement channel of a payment
type PaymentType string

const (
	PaymentTypeCash PaymentType = "CASH"
	PaymentTypeBank PaymentType = "BANK"
)

// IsValid returns true if the payment type is valid
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeBank:
		return true
	}
	return false
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PaymentHistory records a single settlement between the business and a
// customer. IsReceived=true means money came in (the customer's outstanding
// amount goes down); false means the business paid out (it goes up).
// Every record's balance effect is reversible through the ledger entries it
// produced, keyed by this record's ID as the source document.
type PaymentHistory struct {
	shared.TenantEntity
	CustomerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsReceived  bool            `gorm:"not null"`
	PaymentType PaymentType     `gorm:"size:16;not null"`
	PaymentDate time.Time       `gorm:"not null"`
	Remark      string          `gorm:"size:512"`
}

// TableName returns the table name for GORM
func (PaymentHistory) TableName() string {
	return "payment_histories"
}

// NewPaymentHistory creates a new payment record
func NewPaymentHistory(tenantID, customerID uuid.UUID, amount decimal.Decimal, isReceived bool, paymentType PaymentType, paymentDate time.Time) (*PaymentHistory, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_TYPE", "Invalid payment type")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	return &PaymentHistory{
		TenantEntity: shared.NewTenantEntity(tenantID),
		CustomerID:   customerID,
		Amount:       amount,
		IsReceived:   isReceived,
		PaymentType:  paymentType,
		PaymentDate:  paymentDate,
	}, nil
}

// BalanceDelta returns the signed effect of this payment on the customer's
// outstanding amount: received payments reduce it, paid-out payments raise it.
func (p *PaymentHistory) BalanceDelta() decimal.Decimal {
	if p.IsReceived {
		return p.Amount.Neg()
	}
	return p.Amount
}
