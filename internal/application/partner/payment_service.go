package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appledger "github.com/udyog/backend/internal/application/ledger"
	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/shared"
)

// PaymentService records settlements between the business and its trading
// parties. Each payment writes one record and one ledger adjustment in the
// same transaction; deleting a payment reverses its ledger effect before
// removing the record.
type PaymentService struct {
	scope   scope.TransactionScope
	ledgers *appledger.Factory
	log     *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(txScope scope.TransactionScope, ledgers *appledger.Factory, log *zap.Logger) *PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PaymentService{scope: txScope, ledgers: ledgers, log: log}
}

// Create records a payment and moves the customer's outstanding amount.
// Money received lowers it, money paid out raises it.
func (s *PaymentService) Create(ctx context.Context, tenantID uuid.UUID, operatorID *uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	var resp *PaymentResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}

		payment, err := partner.NewPaymentHistory(
			tenantID,
			req.CustomerID,
			req.Amount,
			req.IsReceived,
			partner.PaymentType(req.PaymentType),
			req.PaymentDate,
		)
		if err != nil {
			return err
		}
		payment.Remark = req.Remark

		if err := repos.Payments().Save(ctx, payment); err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourcePayment, ID: payment.ID.String()}
		balance := s.ledgers.Balance(repos.Balances(), repos.Entries())
		if err := balance.ApplyPayment(ctx, tenantID, payment, source, operatorID); err != nil {
			return err
		}

		resp = toPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("payment_id", resp.ID.String()),
		zap.String("customer_id", resp.CustomerID.String()),
		zap.Bool("is_received", resp.IsReceived),
		zap.String("amount", resp.Amount.String()),
	)
	return resp, nil
}

// Delete reverses a payment's balance effect and removes the record
func (s *PaymentService) Delete(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourcePayment, ID: payment.ID.String()}
		balance := s.ledgers.Balance(repos.Balances(), repos.Entries())
		if err := balance.ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		return repos.Payments().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("payment deleted",
		zap.String("payment_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return nil
}

// Get returns one payment record
func (s *PaymentService) Get(ctx context.Context, tenantID, id uuid.UUID) (*PaymentResponse, error) {
	var resp *PaymentResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		payment, err := repos.Payments().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toPaymentResponse(payment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListByCustomer returns a customer's payment records, newest first
func (s *PaymentService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, req ListPaymentsRequest) (*shared.Paginated[PaymentResponse], error) {
	var page *shared.Paginated[PaymentResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := partner.PaymentHistoryFilter{Filter: shared.DefaultFilter()}
		if req.Page > 0 {
			filter.Page = req.Page
		}
		if req.PageSize > 0 {
			filter.PageSize = req.PageSize
		}
		filter.IsReceived = req.IsReceived
		if req.PaymentType != nil {
			pt := partner.PaymentType(*req.PaymentType)
			filter.PaymentType = &pt
		}
		filter.DateFrom = req.DateFrom
		filter.DateTo = req.DateTo

		payments, total, err := repos.Payments().FindByCustomer(ctx, tenantID, customerID, filter)
		if err != nil {
			return err
		}

		items := make([]PaymentResponse, 0, len(payments))
		for i := range payments {
			items = append(items, *toPaymentResponse(&payments[i]))
		}
		result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		page = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}
