package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appledger "github.com/udyog/backend/internal/application/ledger"
	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/shared"
	"github.com/udyog/backend/internal/domain/trade"
)

// PurchaseService manages purchase documents. Every write runs inside one
// transaction that persists the document and applies its ledger effects, so
// a purchase either fully lands (rows plus stock plus party balance) or not
// at all. Updates revert the old document's ledger effects and reapply the
// new ones inside the same transaction.
type PurchaseService struct {
	scope   scope.TransactionScope
	ledgers *appledger.Factory
	log     *zap.Logger
}

// NewPurchaseService creates a purchase service
func NewPurchaseService(txScope scope.TransactionScope, ledgers *appledger.Factory, log *zap.Logger) *PurchaseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PurchaseService{scope: txScope, ledgers: ledgers, log: log}
}

// Create records a purchase, adds each line's quantity to product stock and
// lowers the supplier party's outstanding amount by the document total.
func (s *PurchaseService) Create(ctx context.Context, tenantID uuid.UUID, operatorID *uuid.UUID, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	var resp *PurchaseResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}

		purchase, err := trade.NewPurchase(tenantID, req.CustomerID, req.PurchaseDate)
		if err != nil {
			return err
		}
		purchase.InvoiceNumber = req.InvoiceNumber
		purchase.Remark = req.Remark

		if err := verifyProducts(ctx, repos, tenantID, req.Items); err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := purchase.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.Purchases().SaveWithItems(ctx, purchase); err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, tenantID, operatorID, purchase); err != nil {
			return err
		}

		resp = toPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase created",
		zap.String("purchase_id", resp.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("total", resp.TotalAmount.String()),
	)
	return resp, nil
}

// Update replaces a purchase document. The old document's ledger effects are
// reverted by net, the lines are replaced and the new effects applied, all
// in one transaction.
func (s *PurchaseService) Update(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID, req UpdatePurchaseRequest) (*PurchaseResponse, error) {
	var resp *PurchaseResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		purchase, err := repos.Purchases().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourcePurchase, ID: purchase.SourceID()}
		if err := s.ledgers.Ledger(repos.Balances(), repos.Entries()).ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		purchase.CustomerID = req.CustomerID
		if !req.PurchaseDate.IsZero() {
			purchase.PurchaseDate = req.PurchaseDate
		}
		purchase.InvoiceNumber = req.InvoiceNumber
		purchase.Remark = req.Remark
		purchase.Items = purchase.Items[:0]
		purchase.TotalAmount = decimal.Zero

		if err := verifyProducts(ctx, repos, tenantID, req.Items); err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := purchase.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.Purchases().SaveWithItems(ctx, purchase); err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, tenantID, operatorID, purchase); err != nil {
			return err
		}

		resp = toPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase updated",
		zap.String("purchase_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// Delete reverts a purchase's ledger effects and removes the document
func (s *PurchaseService) Delete(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		purchase, err := repos.Purchases().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourcePurchase, ID: purchase.SourceID()}
		if err := s.ledgers.Ledger(repos.Balances(), repos.Entries()).ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		return repos.Purchases().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("purchase deleted",
		zap.String("purchase_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return nil
}

// Get returns one purchase with its lines
func (s *PurchaseService) Get(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseResponse, error) {
	var resp *PurchaseResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		purchase, err := repos.Purchases().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toPurchaseResponse(purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns purchases for a tenant, newest first
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, req ListDocumentsRequest) (*shared.Paginated[PurchaseResponse], error) {
	var page *shared.Paginated[PurchaseResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := documentFilter(req)
		purchases, total, err := repos.Purchases().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		items := make([]PurchaseResponse, 0, len(purchases))
		for i := range purchases {
			items = append(items, *toPurchaseResponse(&purchases[i]))
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

func (s *PurchaseService) applyEffects(ctx context.Context, repos scope.Repositories, tenantID uuid.UUID, operatorID *uuid.UUID, purchase *trade.Purchase) error {
	source := ledger.Source{Type: ledger.SourcePurchase, ID: purchase.SourceID()}

	stock := s.ledgers.Stock(repos.Balances(), repos.Entries())
	for _, item := range purchase.Items {
		if err := stock.ApplyPurchase(ctx, tenantID, item.ProductID, item.Quantity, source, operatorID); err != nil {
			return err
		}
	}

	balance := s.ledgers.Balance(repos.Balances(), repos.Entries())
	return balance.ApplyPurchase(ctx, tenantID, purchase.CustomerID, purchase.TotalAmount, source, operatorID)
}

func verifyProducts(ctx context.Context, repos scope.Repositories, tenantID uuid.UUID, items []DocumentItemRequest) error {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := repos.Products().FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if len(products) != len(ids) {
		return shared.NewDomainError("PRODUCT_NOT_FOUND", "One or more products do not exist for this tenant")
	}
	return nil
}

func documentFilter(req ListDocumentsRequest) trade.DocumentFilter {
	filter := trade.DocumentFilter{Filter: shared.DefaultFilter()}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	filter.CustomerID = req.CustomerID
	filter.DateFrom = req.DateFrom
	filter.DateTo = req.DateTo
	return filter
}
