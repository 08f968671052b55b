package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/ledger"
)

// ProductStockMutator adjusts Product.RemainingQuantity through the ledger.
//
// The block/unblock aliases the business once carried are gone: the product
// keeps a single authoritative quantity field, and callers express every
// movement as a purchase-like increase or a sale-like decrease tied to a
// source document.
type ProductStockMutator struct {
	ledger *Ledger
}

// NewProductStockMutator creates a ProductStockMutator over the given ledger
func NewProductStockMutator(l *Ledger) *ProductStockMutator {
	return &ProductStockMutator{ledger: l}
}

// ApplyPurchase adds purchased quantity to stock
func (m *ProductStockMutator) ApplyPurchase(ctx context.Context, tenantID, productID uuid.UUID, qty decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountProductStock,
		EntityID:   productID,
		Amount:     qty,
		Intent:     ledger.IntentIncrease,
		Reason:     ledger.ReasonPurchase,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ApplySale removes sold quantity from stock
func (m *ProductStockMutator) ApplySale(ctx context.Context, tenantID, productID uuid.UUID, qty decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountProductStock,
		EntityID:   productID,
		Amount:     qty,
		Intent:     ledger.IntentDecrease,
		Reason:     ledger.ReasonSale,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ApplyConsumption records raw material consumed by a production batch
func (m *ProductStockMutator) ApplyConsumption(ctx context.Context, tenantID, productID uuid.UUID, qty decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountProductStock,
		EntityID:   productID,
		Amount:     qty,
		Intent:     ledger.IntentDecrease,
		Reason:     ledger.ReasonBatchConsume,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ApplyProduction records finished goods yielded by a production batch
func (m *ProductStockMutator) ApplyProduction(ctx context.Context, tenantID, productID uuid.UUID, qty decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountProductStock,
		EntityID:   productID,
		Amount:     qty,
		Intent:     ledger.IntentIncrease,
		Reason:     ledger.ReasonBatchProduce,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ReversePurchase undoes a prior purchase of the given quantity
func (m *ProductStockMutator) ReversePurchase(ctx context.Context, tenantID, productID uuid.UUID, qty decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountProductStock,
		EntityID:   productID,
		Amount:     qty,
		Intent:     ledger.IntentDecrease,
		Reason:     ledger.ReasonReversal,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ReverseSale undoes a prior sale of the given quantity
func (m *ProductStockMutator) ReverseSale(ctx context.Context, tenantID, productID uuid.UUID, qty decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountProductStock,
		EntityID:   productID,
		Amount:     qty,
		Intent:     ledger.IntentIncrease,
		Reason:     ledger.ReasonReversal,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ReverseBySource undoes all stock effects of a source document
func (m *ProductStockMutator) ReverseBySource(ctx context.Context, tenantID uuid.UUID, source ledger.Source, operatorID *uuid.UUID) error {
	return m.ledger.ReverseBySource(ctx, tenantID, source, operatorID)
}
