package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/partner"
)

// CreateCustomerRequest creates a trading party
type CreateCustomerRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Phone     string `json:"phone" binding:"max=32"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Address   string `json:"address" binding:"max=512"`
	GSTNumber string `json:"gst_number" binding:"max=32"`
	Remark    string `json:"remark" binding:"max=512"`
}

// UpdateCustomerRequest updates a trading party's identity fields. The
// outstanding amount is never settable here; it only moves via the ledger.
type UpdateCustomerRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Phone     string `json:"phone" binding:"max=32"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Address   string `json:"address" binding:"max=512"`
	GSTNumber string `json:"gst_number" binding:"max=32"`
	Remark    string `json:"remark" binding:"max=512"`
}

// ListCustomersRequest filters customer listings
type ListCustomersRequest struct {
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
	Search          string `form:"search"`
	OnlyOutstanding bool   `form:"only_outstanding"`
}

// CustomerResponse is the API shape of a customer
type CustomerResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Name                   string          `json:"name"`
	Phone                  string          `json:"phone"`
	Email                  string          `json:"email"`
	Address                string          `json:"address"`
	GSTNumber              string          `json:"gst_number"`
	RemainingPaymentAmount decimal.Decimal `json:"remaining_payment_amount"`
	Remark                 string          `json:"remark"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// CreatePaymentRequest records a settlement with a customer
type CreatePaymentRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	IsReceived  bool            `json:"is_received"`
	PaymentType string          `json:"payment_type" binding:"required,oneof=CASH BANK"`
	PaymentDate time.Time       `json:"payment_date"`
	Remark      string          `json:"remark" binding:"max=512"`
}

// ListPaymentsRequest filters a customer's payment records
type ListPaymentsRequest struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	IsReceived  *bool      `form:"is_received"`
	PaymentType *string    `form:"payment_type"`
	DateFrom    *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo      *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// PaymentResponse is the API shape of a payment record
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Amount      decimal.Decimal `json:"amount"`
	IsReceived  bool            `json:"is_received"`
	PaymentType string          `json:"payment_type"`
	PaymentDate time.Time       `json:"payment_date"`
	Remark      string          `json:"remark"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toCustomerResponse(c *partner.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:                     c.ID,
		Name:                   c.Name,
		Phone:                  c.Phone,
		Email:                  c.Email,
		Address:                c.Address,
		GSTNumber:              c.GSTNumber,
		RemainingPaymentAmount: c.RemainingPaymentAmount,
		Remark:                 c.Remark,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

func toPaymentResponse(p *partner.PaymentHistory) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Amount:      p.Amount,
		IsReceived:  p.IsReceived,
		PaymentType: p.PaymentType.String(),
		PaymentDate: p.PaymentDate,
		Remark:      p.Remark,
		CreatedAt:   p.CreatedAt,
	}
}
