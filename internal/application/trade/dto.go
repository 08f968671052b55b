package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/trade"
)

// DocumentItemRequest is one line on a purchase or sale request
type DocumentItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreatePurchaseRequest creates a purchase document
type CreatePurchaseRequest struct {
	CustomerID    uuid.UUID             `json:"customer_id" binding:"required"`
	PurchaseDate  time.Time             `json:"purchase_date"`
	InvoiceNumber string                `json:"invoice_number" binding:"max=64"`
	Remark        string                `json:"remark" binding:"max=512"`
	Items         []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseRequest replaces a purchase document wholesale
type UpdatePurchaseRequest struct {
	CustomerID    uuid.UUID             `json:"customer_id" binding:"required"`
	PurchaseDate  time.Time             `json:"purchase_date"`
	InvoiceNumber string                `json:"invoice_number" binding:"max=64"`
	Remark        string                `json:"remark" binding:"max=512"`
	Items         []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleRequest creates a sale document
type CreateSaleRequest struct {
	CustomerID    uuid.UUID             `json:"customer_id" binding:"required"`
	SaleDate      time.Time             `json:"sale_date"`
	InvoiceNumber string                `json:"invoice_number" binding:"max=64"`
	Remark        string                `json:"remark" binding:"max=512"`
	Items         []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateSaleRequest replaces a sale document wholesale
type UpdateSaleRequest struct {
	CustomerID    uuid.UUID             `json:"customer_id" binding:"required"`
	SaleDate      time.Time             `json:"sale_date"`
	InvoiceNumber string                `json:"invoice_number" binding:"max=64"`
	Remark        string                `json:"remark" binding:"max=512"`
	Items         []DocumentItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListDocumentsRequest filters purchase or sale listings
type ListDocumentsRequest struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	CustomerID *uuid.UUID `form:"customer_id"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
}

// DocumentItemResponse is one line on a purchase or sale
type DocumentItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// PurchaseResponse is the API shape of a purchase document
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	CustomerID    uuid.UUID              `json:"customer_id"`
	PurchaseDate  time.Time              `json:"purchase_date"`
	InvoiceNumber string                 `json:"invoice_number"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Remark        string                 `json:"remark"`
	Items         []DocumentItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// SaleResponse is the API shape of a sale document
type SaleResponse struct {
	ID            uuid.UUID              `json:"id"`
	CustomerID    uuid.UUID              `json:"customer_id"`
	SaleDate      time.Time              `json:"sale_date"`
	InvoiceNumber string                 `json:"invoice_number"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Remark        string                 `json:"remark"`
	Items         []DocumentItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func toPurchaseResponse(p *trade.Purchase) *PurchaseResponse {
	items := make([]DocumentItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, DocumentItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		})
	}
	return &PurchaseResponse{
		ID:            p.ID,
		CustomerID:    p.CustomerID,
		PurchaseDate:  p.PurchaseDate,
		InvoiceNumber: p.InvoiceNumber,
		TotalAmount:   p.TotalAmount,
		Remark:        p.Remark,
		Items:         items,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toSaleResponse(s *trade.Sale) *SaleResponse {
	items := make([]DocumentItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, DocumentItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		})
	}
	return &SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		SaleDate:      s.SaleDate,
		InvoiceNumber: s.InvoiceNumber,
		TotalAmount:   s.TotalAmount,
		Remark:        s.Remark,
		Items:         items,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
