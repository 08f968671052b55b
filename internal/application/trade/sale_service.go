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

// SaleService manages sale documents. The transaction and reversal shape
// mirrors PurchaseService with the ledger directions flipped: sales consume
// stock and raise the customer's outstanding amount.
type SaleService struct {
	scope   scope.TransactionScope
	ledgers *appledger.Factory
	log     *zap.Logger
}

// NewSaleService creates a sale service
func NewSaleService(txScope scope.TransactionScope, ledgers *appledger.Factory, log *zap.Logger) *SaleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SaleService{scope: txScope, ledgers: ledgers, log: log}
}

// Create records a sale, removes each line's quantity from product stock and
// raises the customer's outstanding amount by the document total.
func (s *SaleService) Create(ctx context.Context, tenantID uuid.UUID, operatorID *uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	var resp *SaleResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}

		sale, err := trade.NewSale(tenantID, req.CustomerID, req.SaleDate)
		if err != nil {
			return err
		}
		sale.InvoiceNumber = req.InvoiceNumber
		sale.Remark = req.Remark

		if err := verifyProducts(ctx, repos, tenantID, req.Items); err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := sale.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.Sales().SaveWithItems(ctx, sale); err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, tenantID, operatorID, sale); err != nil {
			return err
		}

		resp = toSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale created",
		zap.String("sale_id", resp.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("total", resp.TotalAmount.String()),
	)
	return resp, nil
}

// Update replaces a sale document, reverting the old ledger effects and
// applying the new ones in the same transaction
func (s *SaleService) Update(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID, req UpdateSaleRequest) (*SaleResponse, error) {
	var resp *SaleResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		sale, err := repos.Sales().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourceSale, ID: sale.SourceID()}
		if err := s.ledgers.Ledger(repos.Balances(), repos.Entries()).ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		sale.CustomerID = req.CustomerID
		if !req.SaleDate.IsZero() {
			sale.SaleDate = req.SaleDate
		}
		sale.InvoiceNumber = req.InvoiceNumber
		sale.Remark = req.Remark
		sale.Items = sale.Items[:0]
		sale.TotalAmount = decimal.Zero

		if err := verifyProducts(ctx, repos, tenantID, req.Items); err != nil {
			return err
		}
		for _, item := range req.Items {
			if err := sale.AddItem(item.ProductID, item.Quantity, item.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.Sales().SaveWithItems(ctx, sale); err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, tenantID, operatorID, sale); err != nil {
			return err
		}

		resp = toSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("sale updated",
		zap.String("sale_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// Delete reverts a sale's ledger effects and removes the document
func (s *SaleService) Delete(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		sale, err := repos.Sales().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourceSale, ID: sale.SourceID()}
		if err := s.ledgers.Ledger(repos.Balances(), repos.Entries()).ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		return repos.Sales().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("sale deleted",
		zap.String("sale_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return nil
}

// Get returns one sale with its lines
func (s *SaleService) Get(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	var resp *SaleResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		sale, err := repos.Sales().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toSaleResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns sales for a tenant, newest first
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, req ListDocumentsRequest) (*shared.Paginated[SaleResponse], error) {
	var page *shared.Paginated[SaleResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := documentFilter(req)
		sales, total, err := repos.Sales().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		items := make([]SaleResponse, 0, len(sales))
		for i := range sales {
			items = append(items, *toSaleResponse(&sales[i]))
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

func (s *SaleService) applyEffects(ctx context.Context, repos scope.Repositories, tenantID uuid.UUID, operatorID *uuid.UUID, sale *trade.Sale) error {
	source := ledger.Source{Type: ledger.SourceSale, ID: sale.SourceID()}

	stock := s.ledgers.Stock(repos.Balances(), repos.Entries())
	for _, item := range sale.Items {
		if err := stock.ApplySale(ctx, tenantID, item.ProductID, item.Quantity, source, operatorID); err != nil {
			return err
		}
	}

	balance := s.ledgers.Balance(repos.Balances(), repos.Entries())
	return balance.ApplySale(ctx, tenantID, sale.CustomerID, sale.TotalAmount, source, operatorID)
}
