package quotation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/quotation"
)

// ItemRequest is one line on a quotation request
type ItemRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	BrandID       *uuid.UUID      `json:"brand_id"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price" binding:"required"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	NumberOfRoll  *int            `json:"number_of_roll"`
	WeightPerRoll decimal.Decimal `json:"weight_per_roll"`
}

// CreateQuotationRequest creates a quotation
type CreateQuotationRequest struct {
	CustomerID         uuid.UUID       `json:"customer_id" binding:"required"`
	QuotationDate      time.Time       `json:"quotation_date"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	PackagingCharge    decimal.Decimal `json:"packaging_charge"`
	Remark             string          `json:"remark" binding:"max=512"`
	Items              []ItemRequest   `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuotationRequest replaces a quotation's lines and pricing inputs
type UpdateQuotationRequest struct {
	CustomerID         uuid.UUID       `json:"customer_id" binding:"required"`
	QuotationDate      time.Time       `json:"quotation_date"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	PackagingCharge    decimal.Decimal `json:"packaging_charge"`
	Remark             string          `json:"remark" binding:"max=512"`
	Items              []ItemRequest   `json:"items" binding:"required,min=1,dive"`
}

// UpdateStatusRequest moves a quotation through its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Q A D P PC C I"`
}

// ListQuotationsRequest filters quotation listings
type ListQuotationsRequest struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     *string    `form:"status"`
	DateFrom   *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// ItemResponse is one line on a quotation
type ItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	BrandID       *uuid.UUID      `json:"brand_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	NumberOfRoll  *int            `json:"number_of_roll"`
	WeightPerRoll decimal.Decimal `json:"weight_per_roll"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	DiscountedTax decimal.Decimal `json:"discounted_tax"`
	FinalPrice    decimal.Decimal `json:"final_price"`
}

// QuotationResponse is the API shape of a quotation
type QuotationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	QuotationDate      time.Time       `json:"quotation_date"`
	Status             string          `json:"status"`
	StatusLabel        string          `json:"status_label"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	PackagingCharge    decimal.Decimal `json:"packaging_charge"`
	TotalSubTotal      decimal.Decimal `json:"total_sub_total"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	Remark             string          `json:"remark"`
	Items              []ItemResponse  `json:"items"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func toQuotationResponse(q *quotation.Quotation) *QuotationResponse {
	items := make([]ItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, ItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			BrandID:       it.BrandID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			TaxPercentage: it.TaxPercentage,
			NumberOfRoll:  it.NumberOfRoll,
			WeightPerRoll: it.WeightPerRoll,
			SubTotal:      it.SubTotal,
			TaxAmount:     it.TaxAmount,
			DiscountedTax: it.DiscountedTax,
			FinalPrice:    it.FinalPrice,
		})
	}
	return &QuotationResponse{
		ID:                 q.ID,
		CustomerID:         q.CustomerID,
		QuotationDate:      q.QuotationDate,
		Status:             q.Status.String(),
		StatusLabel:        q.Status.Label(),
		DiscountPercentage: q.DiscountPercentage,
		PackagingCharge:    q.PackagingCharge,
		TotalSubTotal:      q.TotalSubTotal,
		TotalTax:           q.TotalTax,
		TotalDiscount:      q.TotalDiscount,
		GrandTotal:         q.GrandTotal,
		Remark:             q.Remark,
		Items:              items,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}
