package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appledger "github.com/udyog/backend/internal/application/ledger"
	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/shared"
)

// BatchService manages production batches and reconciles their stock
// effects. A batch consumes mixer quantities and yields production
// quantities; every create, update and delete runs in one transaction that
// keeps the ledger in step with the stored lines. An update reverts the
// batch's prior net stock effect and reapplies the new lines, so a failure
// anywhere rolls the whole reconciliation back and the batch is never left
// half reverted.
type BatchService struct {
	scope   scope.TransactionScope
	ledgers *appledger.Factory
	log     *zap.Logger
}

// NewBatchService creates a batch service
func NewBatchService(txScope scope.TransactionScope, ledgers *appledger.Factory, log *zap.Logger) *BatchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchService{scope: txScope, ledgers: ledgers, log: log}
}

// Create records a batch. The batch name is generated from the batch date
// and a per-tenant per-date sequence number.
func (s *BatchService) Create(ctx context.Context, tenantID uuid.UUID, operatorID *uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	var resp *BatchResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Machines().FindByIDForTenant(ctx, tenantID, req.MachineID); err != nil {
			return err
		}

		batch, err := production.NewBatch(tenantID, req.MachineID, req.BatchDate, production.Shift(req.Shift))
		if err != nil {
			return err
		}
		batch.ResignBagUse = req.ResignBagUse
		batch.ResignBagOpeningStock = req.ResignBagOpeningStock
		batch.CpwBagUse = req.CpwBagUse
		batch.CpwBagOpeningStock = req.CpwBagOpeningStock

		count, err := repos.Batches().CountByDate(ctx, tenantID, req.BatchDate)
		if err != nil {
			return err
		}
		batch.Name = production.BatchName(req.BatchDate, count+1)

		mixers, productions, err := buildItems(batch.ID, req.Mixers, req.Productions)
		if err != nil {
			return err
		}
		if err := verifyBatchProducts(ctx, repos, tenantID, mixers, productions); err != nil {
			return err
		}
		batch.Mixers = mixers
		batch.Productions = productions

		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}
		if err := repos.Batches().ReplaceItems(ctx, batch.ID, mixers, productions); err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, tenantID, operatorID, batch); err != nil {
			return err
		}

		resp = toBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("batch created",
		zap.String("batch_id", resp.ID.String()),
		zap.String("name", resp.Name),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// Update replaces a batch and reconciles stock: the prior net effect is
// reverted, the lines replaced and the new effects applied, atomically. The
// generated name is rebuilt only when the batch date changes.
func (s *BatchService) Update(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID, req UpdateBatchRequest) (*BatchResponse, error) {
	var resp *BatchResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := repos.Machines().FindByIDForTenant(ctx, tenantID, req.MachineID); err != nil {
			return err
		}

		shift := production.Shift(req.Shift)
		if !shift.IsValid() {
			return shared.NewDomainError("INVALID_SHIFT", "Invalid shift")
		}

		source := ledger.Source{Type: ledger.SourceBatch, ID: batch.SourceID()}
		if err := s.ledgers.Ledger(repos.Balances(), repos.Entries()).ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		dateChanged := !sameDate(batch.BatchDate, req.BatchDate)
		batch.MachineID = req.MachineID
		batch.BatchDate = req.BatchDate
		batch.Shift = shift
		batch.ResignBagUse = req.ResignBagUse
		batch.ResignBagOpeningStock = req.ResignBagOpeningStock
		batch.CpwBagUse = req.CpwBagUse
		batch.CpwBagOpeningStock = req.CpwBagOpeningStock

		if dateChanged {
			count, err := repos.Batches().CountByDate(ctx, tenantID, req.BatchDate)
			if err != nil {
				return err
			}
			batch.Name = production.BatchName(req.BatchDate, count+1)
		}

		mixers, productions, err := buildItems(batch.ID, req.Mixers, req.Productions)
		if err != nil {
			return err
		}
		if err := verifyBatchProducts(ctx, repos, tenantID, mixers, productions); err != nil {
			return err
		}
		batch.Mixers = mixers
		batch.Productions = productions

		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}
		if err := repos.Batches().ReplaceItems(ctx, batch.ID, mixers, productions); err != nil {
			return err
		}

		if err := s.applyEffects(ctx, repos, tenantID, operatorID, batch); err != nil {
			return err
		}

		resp = toBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("batch updated",
		zap.String("batch_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// Delete reverts a batch's stock effects and removes it with its lines
func (s *BatchService) Delete(ctx context.Context, tenantID, id uuid.UUID, operatorID *uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}

		source := ledger.Source{Type: ledger.SourceBatch, ID: batch.SourceID()}
		if err := s.ledgers.Ledger(repos.Balances(), repos.Entries()).ReverseBySource(ctx, tenantID, source, operatorID); err != nil {
			return err
		}

		return repos.Batches().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("batch deleted",
		zap.String("batch_id", id.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return nil
}

// Get returns one batch with its lines
func (s *BatchService) Get(ctx context.Context, tenantID, id uuid.UUID) (*BatchResponse, error) {
	var resp *BatchResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		batch, err := repos.Batches().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns batches for a tenant, newest first
func (s *BatchService) List(ctx context.Context, tenantID uuid.UUID, req ListBatchesRequest) (*shared.Paginated[BatchResponse], error) {
	var page *shared.Paginated[BatchResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := production.BatchFilter{Filter: shared.DefaultFilter()}
		if req.Page > 0 {
			filter.Page = req.Page
		}
		if req.PageSize > 0 {
			filter.PageSize = req.PageSize
		}
		filter.MachineID = req.MachineID
		if req.Shift != nil {
			shift := production.Shift(*req.Shift)
			filter.Shift = &shift
		}
		filter.DateFrom = req.DateFrom
		filter.DateTo = req.DateTo

		batches, total, err := repos.Batches().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		items := make([]BatchResponse, 0, len(batches))
		for i := range batches {
			items = append(items, *toBatchResponse(&batches[i]))
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

func (s *BatchService) applyEffects(ctx context.Context, repos scope.Repositories, tenantID uuid.UUID, operatorID *uuid.UUID, batch *production.Batch) error {
	source := ledger.Source{Type: ledger.SourceBatch, ID: batch.SourceID()}
	stock := s.ledgers.Stock(repos.Balances(), repos.Entries())

	for _, mixer := range batch.Mixers {
		if err := stock.ApplyConsumption(ctx, tenantID, mixer.ProductID, mixer.Quantity, source, operatorID); err != nil {
			return err
		}
	}
	for _, prod := range batch.Productions {
		if err := stock.ApplyProduction(ctx, tenantID, prod.ProductID, prod.Quantity, source, operatorID); err != nil {
			return err
		}
	}
	return nil
}

func buildItems(batchID uuid.UUID, mixerReqs []MixerItemRequest, productionReqs []ProductionItemRequest) ([]production.MixerItem, []production.ProductionItem, error) {
	if len(mixerReqs) == 0 {
		return nil, nil, shared.NewDomainError("INVALID_ITEMS", "A batch needs at least one mixer item")
	}
	if len(productionReqs) == 0 {
		return nil, nil, shared.NewDomainError("INVALID_ITEMS", "A batch needs at least one production item")
	}

	mixers := make([]production.MixerItem, 0, len(mixerReqs))
	for _, req := range mixerReqs {
		if req.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, nil, shared.NewDomainError("INVALID_QUANTITY", "Mixer quantity must be positive")
		}
		mixers = append(mixers, production.MixerItem{
			BaseEntity: shared.NewBaseEntity(),
			BatchID:    batchID,
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
		})
	}

	productions := make([]production.ProductionItem, 0, len(productionReqs))
	for _, req := range productionReqs {
		if req.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, nil, shared.NewDomainError("INVALID_QUANTITY", "Production quantity must be positive")
		}
		productions = append(productions, production.ProductionItem{
			BaseEntity:   shared.NewBaseEntity(),
			BatchID:      batchID,
			ProductID:    req.ProductID,
			Quantity:     req.Quantity,
			NumberOfRoll: req.NumberOfRoll,
		})
	}
	return mixers, productions, nil
}

func verifyBatchProducts(ctx context.Context, repos scope.Repositories, tenantID uuid.UUID, mixers []production.MixerItem, productions []production.ProductionItem) error {
	ids := make([]uuid.UUID, 0, len(mixers)+len(productions))
	seen := make(map[uuid.UUID]struct{}, len(mixers)+len(productions))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, m := range mixers {
		add(m.ProductID)
	}
	for _, p := range productions {
		add(p.ProductID)
	}
	if len(ids) == 0 {
		return nil
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

// sameDate compares calendar days in UTC. Values loaded back from the
// database may carry a different location than the incoming request.
func sameDate(a, b time.Time) bool {
	return a.UTC().Format("20060102") == b.UTC().Format("20060102")
}
