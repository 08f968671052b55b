package quotation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/quotation"
	"github.com/udyog/backend/internal/domain/shared"
)

// QuotationService manages priced offers and their lifecycle. Quotations
// never touch stock or party balances; those only move when a quotation is
// converted into a sale document.
type QuotationService struct {
	scope scope.TransactionScope
	log   *zap.Logger
}

// NewQuotationService creates a quotation service
func NewQuotationService(txScope scope.TransactionScope, log *zap.Logger) *QuotationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuotationService{scope: txScope, log: log}
}

// Create prices and stores a quotation in the Quote state
func (s *QuotationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	var resp *QuotationResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}

		q, err := quotation.NewQuotation(tenantID, req.CustomerID, req.QuotationDate, req.DiscountPercentage, req.PackagingCharge)
		if err != nil {
			return err
		}
		q.Remark = req.Remark

		if err := addItems(q, req.Items); err != nil {
			return err
		}
		q.Recalculate()

		if err := repos.Quotations().SaveWithItems(ctx, q); err != nil {
			return err
		}
		resp = toQuotationResponse(q)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quotation created",
		zap.String("quotation_id", resp.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("grand_total", resp.GrandTotal.String()),
	)
	return resp, nil
}

// Update replaces a quotation's lines and pricing inputs and reprices it.
// The status is untouched; use UpdateStatus to move the lifecycle.
func (s *QuotationService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	var resp *QuotationResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		q, err := repos.Quotations().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}
		if req.DiscountPercentage.IsNegative() || req.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
		}
		if req.PackagingCharge.IsNegative() {
			return shared.NewDomainError("INVALID_CHARGE", "Packaging charge cannot be negative")
		}

		q.CustomerID = req.CustomerID
		if !req.QuotationDate.IsZero() {
			q.QuotationDate = req.QuotationDate
		}
		q.DiscountPercentage = req.DiscountPercentage
		q.PackagingCharge = req.PackagingCharge
		q.Remark = req.Remark
		q.Items = q.Items[:0]

		if err := addItems(q, req.Items); err != nil {
			return err
		}
		q.Recalculate()

		if err := repos.Quotations().SaveWithItems(ctx, q); err != nil {
			return err
		}
		resp = toQuotationResponse(q)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quotation updated",
		zap.String("quotation_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// UpdateStatus moves a quotation along its lifecycle. Disallowed moves
// return an INVALID_TRANSITION error and change nothing.
func (s *QuotationService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req UpdateStatusRequest) (*QuotationResponse, error) {
	var resp *QuotationResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		q, err := repos.Quotations().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := q.TransitionTo(quotation.Status(req.Status)); err != nil {
			return err
		}
		if err := repos.Quotations().Save(ctx, q); err != nil {
			return err
		}
		resp = toQuotationResponse(q)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quotation status changed",
		zap.String("quotation_id", id.String()),
		zap.String("status", resp.Status),
	)
	return resp, nil
}

// Delete removes a quotation and its lines
func (s *QuotationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Quotations().FindByIDForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		return repos.Quotations().DeleteForTenant(ctx, tenantID, id)
	})
}

// Get returns one quotation with its lines
func (s *QuotationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*QuotationResponse, error) {
	var resp *QuotationResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		q, err := repos.Quotations().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toQuotationResponse(q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns quotations for a tenant, newest first
func (s *QuotationService) List(ctx context.Context, tenantID uuid.UUID, req ListQuotationsRequest) (*shared.Paginated[QuotationResponse], error) {
	var page *shared.Paginated[QuotationResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := quotation.Filter{Filter: shared.DefaultFilter()}
		if req.Page > 0 {
			filter.Page = req.Page
		}
		if req.PageSize > 0 {
			filter.PageSize = req.PageSize
		}
		filter.CustomerID = req.CustomerID
		if req.Status != nil {
			status := quotation.Status(*req.Status)
			filter.Status = &status
		}
		filter.DateFrom = req.DateFrom
		filter.DateTo = req.DateTo

		quotations, total, err := repos.Quotations().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		items := make([]QuotationResponse, 0, len(quotations))
		for i := range quotations {
			items = append(items, *toQuotationResponse(&quotations[i]))
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

func addItems(q *quotation.Quotation, items []ItemRequest) error {
	for _, item := range items {
		if err := q.AddItem(item.ProductID, item.BrandID, item.Quantity, item.UnitPrice, item.TaxPercentage, item.NumberOfRoll, item.WeightPerRoll); err != nil {
			return err
		}
	}
	return nil
}
