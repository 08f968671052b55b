package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/partner"
)

// CustomerBalanceMutator adjusts Customer.RemainingPaymentAmount through the
// ledger. Positive balance means the customer owes the business; a purchase
// from the party decreases it, a sale to the party increases it, and payments
// move it in the direction of the money.
type CustomerBalanceMutator struct {
	ledger *Ledger
}

// NewCustomerBalanceMutator creates a CustomerBalanceMutator over the given ledger
func NewCustomerBalanceMutator(l *Ledger) *CustomerBalanceMutator {
	return &CustomerBalanceMutator{ledger: l}
}

// ApplyPurchase decreases what the party owes when the business buys from them
func (m *CustomerBalanceMutator) ApplyPurchase(ctx context.Context, tenantID, customerID uuid.UUID, amount decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountCustomerBalance,
		EntityID:   customerID,
		Amount:     amount,
		Intent:     ledger.IntentDecrease,
		Reason:     ledger.ReasonPurchase,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ApplySale increases what the party owes when the business sells to them
func (m *CustomerBalanceMutator) ApplySale(ctx context.Context, tenantID, customerID uuid.UUID, amount decimal.Decimal, source ledger.Source, operatorID *uuid.UUID) error {
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountCustomerBalance,
		EntityID:   customerID,
		Amount:     amount,
		Intent:     ledger.IntentIncrease,
		Reason:     ledger.ReasonSale,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ApplyPayment applies a payment record. Money received from the customer
// reduces their balance; money paid out to them raises it.
func (m *CustomerBalanceMutator) ApplyPayment(ctx context.Context, tenantID uuid.UUID, payment *partner.PaymentHistory, source ledger.Source, operatorID *uuid.UUID) error {
	intent := ledger.IntentIncrease
	if payment.IsReceived {
		intent = ledger.IntentDecrease
	}
	_, err := m.ledger.Adjust(ctx, tenantID, Adjustment{
		Kind:       ledger.AccountCustomerBalance,
		EntityID:   payment.CustomerID,
		Amount:     payment.Amount,
		Intent:     intent,
		Reason:     ledger.ReasonPayment,
		Source:     source,
		OperatorID: operatorID,
	})
	return err
}

// ReverseBySource undoes all balance effects of a source document
func (m *CustomerBalanceMutator) ReverseBySource(ctx context.Context, tenantID uuid.UUID, source ledger.Source, operatorID *uuid.UUID) error {
	return m.ledger.ReverseBySource(ctx, tenantID, source, operatorID)
}
