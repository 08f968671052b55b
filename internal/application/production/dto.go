package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/production"
)

// MixerItemRequest is one raw material line consumed by a batch
type MixerItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ProductionItemRequest is one finished product line yielded by a batch
type ProductionItemRequest struct {
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	NumberOfRoll int             `json:"number_of_roll" binding:"min=0"`
}

// CreateBatchRequest creates a production batch
type CreateBatchRequest struct {
	MachineID             uuid.UUID               `json:"machine_id" binding:"required"`
	BatchDate             time.Time               `json:"batch_date" binding:"required"`
	Shift                 string                  `json:"shift" binding:"required,oneof=DAY NIGHT"`
	ResignBagUse          decimal.Decimal         `json:"resign_bag_use"`
	ResignBagOpeningStock decimal.Decimal         `json:"resign_bag_opening_stock"`
	CpwBagUse             decimal.Decimal         `json:"cpw_bag_use"`
	CpwBagOpeningStock    decimal.Decimal         `json:"cpw_bag_opening_stock"`
	Mixers                []MixerItemRequest      `json:"mixers" binding:"dive"`
	Productions           []ProductionItemRequest `json:"productions" binding:"dive"`
}

// UpdateBatchRequest replaces a batch wholesale. The update reconciles the
// stock ledger: old effects are reverted and the new lines reapplied in one
// transaction.
type UpdateBatchRequest struct {
	MachineID             uuid.UUID               `json:"machine_id" binding:"required"`
	BatchDate             time.Time               `json:"batch_date" binding:"required"`
	Shift                 string                  `json:"shift" binding:"required,oneof=DAY NIGHT"`
	ResignBagUse          decimal.Decimal         `json:"resign_bag_use"`
	ResignBagOpeningStock decimal.Decimal         `json:"resign_bag_opening_stock"`
	CpwBagUse             decimal.Decimal         `json:"cpw_bag_use"`
	CpwBagOpeningStock    decimal.Decimal         `json:"cpw_bag_opening_stock"`
	Mixers                []MixerItemRequest      `json:"mixers" binding:"dive"`
	Productions           []ProductionItemRequest `json:"productions" binding:"dive"`
}

// ListBatchesRequest filters batch listings
type ListBatchesRequest struct {
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
	MachineID *uuid.UUID `form:"machine_id"`
	Shift     *string    `form:"shift"`
	DateFrom  *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo    *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// MixerItemResponse is one raw material line on a batch
type MixerItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProductionItemResponse is one finished product line on a batch
type ProductionItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	NumberOfRoll int             `json:"number_of_roll"`
}

// BatchResponse is the API shape of a production batch
type BatchResponse struct {
	ID                    uuid.UUID                `json:"id"`
	Name                  string                   `json:"name"`
	BatchDate             time.Time                `json:"batch_date"`
	Shift                 string                   `json:"shift"`
	MachineID             uuid.UUID                `json:"machine_id"`
	ResignBagUse          decimal.Decimal          `json:"resign_bag_use"`
	ResignBagOpeningStock decimal.Decimal          `json:"resign_bag_opening_stock"`
	CpwBagUse             decimal.Decimal          `json:"cpw_bag_use"`
	CpwBagOpeningStock    decimal.Decimal          `json:"cpw_bag_opening_stock"`
	Mixers                []MixerItemResponse      `json:"mixers"`
	Productions           []ProductionItemResponse `json:"productions"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

// MachineRequest creates or updates a machine
type MachineRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Code   string `json:"code" binding:"max=64"`
	Remark string `json:"remark" binding:"max=512"`
}

// MachineResponse is the API shape of a machine
type MachineResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBatchResponse(b *production.Batch) *BatchResponse {
	mixers := make([]MixerItemResponse, 0, len(b.Mixers))
	for _, m := range b.Mixers {
		mixers = append(mixers, MixerItemResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
		})
	}
	productions := make([]ProductionItemResponse, 0, len(b.Productions))
	for _, p := range b.Productions {
		productions = append(productions, ProductionItemResponse{
			ID:           p.ID,
			ProductID:    p.ProductID,
			Quantity:     p.Quantity,
			NumberOfRoll: p.NumberOfRoll,
		})
	}
	return &BatchResponse{
		ID:                    b.ID,
		Name:                  b.Name,
		BatchDate:             b.BatchDate,
		Shift:                 b.Shift.String(),
		MachineID:             b.MachineID,
		ResignBagUse:          b.ResignBagUse,
		ResignBagOpeningStock: b.ResignBagOpeningStock,
		CpwBagUse:             b.CpwBagUse,
		CpwBagOpeningStock:    b.CpwBagOpeningStock,
		Mixers:                mixers,
		Productions:           productions,
		CreatedAt:             b.CreatedAt,
		UpdatedAt:             b.UpdatedAt,
	}
}

func toMachineResponse(m *production.Machine) *MachineResponse {
	return &MachineResponse{
		ID:        m.ID,
		Name:      m.Name,
		Code:      m.Code,
		Remark:    m.Remark,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
