package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/ledger"
	"github.com/udyog/backend/internal/domain/shared"
)

// ListEntriesRequest filters a ledger history listing
type ListEntriesRequest struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Reason   *string    `form:"reason"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
}

// EntryResponse is the API shape of one ledger entry
type EntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Kind          string          `json:"kind"`
	EntityID      uuid.UUID       `json:"entity_id"`
	Delta         decimal.Decimal `json:"delta"`
	Reason        string          `json:"reason"`
	SourceType    string          `json:"source_type"`
	SourceID      string          `json:"source_id"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	OperatorID    *uuid.UUID      `json:"operator_id"`
	EntryDate     time.Time       `json:"entry_date"`
}

// HistoryService reads the append-only ledger for audit views: a product's
// stock movements or a customer's balance movements.
type HistoryService struct {
	scope scope.TransactionScope
	log   *zap.Logger
}

// NewHistoryService creates a HistoryService
func NewHistoryService(txScope scope.TransactionScope, log *zap.Logger) *HistoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryService{scope: txScope, log: log}
}

// ListForProduct lists stock ledger entries for one product, newest first
func (s *HistoryService) ListForProduct(ctx context.Context, tenantID, productID uuid.UUID, req ListEntriesRequest) (*shared.Paginated[EntryResponse], error) {
	return s.list(ctx, tenantID, ledger.AccountProductStock, productID, req, func(repos scope.Repositories) error {
		_, err := repos.Products().FindByIDForTenant(ctx, tenantID, productID)
		return err
	})
}

// ListForCustomer lists balance ledger entries for one customer, newest first
func (s *HistoryService) ListForCustomer(ctx context.Context, tenantID, customerID uuid.UUID, req ListEntriesRequest) (*shared.Paginated[EntryResponse], error) {
	return s.list(ctx, tenantID, ledger.AccountCustomerBalance, customerID, req, func(repos scope.Repositories) error {
		_, err := repos.Customers().FindByIDForTenant(ctx, tenantID, customerID)
		return err
	})
}

func (s *HistoryService) list(
	ctx context.Context,
	tenantID uuid.UUID,
	kind ledger.AccountKind,
	entityID uuid.UUID,
	req ListEntriesRequest,
	verify func(repos scope.Repositories) error,
) (*shared.Paginated[EntryResponse], error) {
	filter := ledger.EntryFilter{
		Filter:   shared.Filter{Page: req.Page, PageSize: req.PageSize},
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if req.Reason != nil {
		reason := ledger.Reason(*req.Reason)
		if !reason.IsValid() {
			return nil, shared.NewDomainError("INVALID_REASON", "Invalid ledger reason")
		}
		filter.Reason = &reason
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	var page *shared.Paginated[EntryResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if err := verify(repos); err != nil {
			return err
		}

		entries, total, err := repos.Entries().FindByEntity(ctx, tenantID, kind, entityID, filter)
		if err != nil {
			return err
		}

		items := make([]EntryResponse, 0, len(entries))
		for i := range entries {
			items = append(items, toEntryResponse(&entries[i]))
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

func toEntryResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		Kind:          e.Kind.String(),
		EntityID:      e.EntityID,
		Delta:         e.Delta,
		Reason:        string(e.Reason),
		SourceType:    e.SourceType.String(),
		SourceID:      e.SourceID,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		OperatorID:    e.OperatorID,
		EntryDate:     e.EntryDate,
	}
}
