package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/catalog"
)

// CreateProductRequest creates a product
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Code          string          `json:"code" binding:"max=64"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Unit          string          `json:"unit" binding:"max=32"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Remark        string          `json:"remark" binding:"max=512"`
}

// UpdateProductRequest updates a product's descriptive fields. The remaining
// quantity is not settable; stock only moves through documents.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Code          string          `json:"code" binding:"max=64"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	Unit          string          `json:"unit" binding:"max=32"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Remark        string          `json:"remark" binding:"max=512"`
}

// ListProductsRequest filters product listings
type ListProductsRequest struct {
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
	Search       string `form:"search"`
	BelowMinimum bool   `form:"below_minimum"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Code              string          `json:"code"`
	CategoryID        *uuid.UUID      `json:"category_id"`
	Unit              string          `json:"unit"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	MinimumStock      decimal.Decimal `json:"minimum_stock"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	BelowMinimum      bool            `json:"below_minimum"`
	Remark            string          `json:"remark"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Remark string `json:"remark" binding:"max=512"`
}

// CategoryResponse is the API shape of a category
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Code:              p.Code,
		CategoryID:        p.CategoryID,
		Unit:              p.Unit,
		RemainingQuantity: p.RemainingQuantity,
		MinimumStock:      p.MinimumStock,
		PurchasePrice:     p.PurchasePrice,
		SalePrice:         p.SalePrice,
		BelowMinimum:      p.IsBelowMinimum(),
		Remark:            p.Remark,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toCategoryResponse(c *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Remark:    c.Remark,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
