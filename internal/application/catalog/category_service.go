package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/catalog"
	"github.com/udyog/backend/internal/domain/shared"
)

// CategoryService manages product categories
type CategoryService struct {
	scope scope.TransactionScope
	log   *zap.Logger
}

// NewCategoryService creates a category service
func NewCategoryService(txScope scope.TransactionScope, log *zap.Logger) *CategoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{scope: txScope, log: log}
}

// Create creates a category
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	var resp *CategoryResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		category, err := catalog.NewCategory(tenantID, req.Name)
		if err != nil {
			return err
		}
		category.Remark = req.Remark

		if err := repos.Categories().Save(ctx, category); err != nil {
			return err
		}
		resp = toCategoryResponse(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update renames a category
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	var resp *CategoryResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		category, err := repos.Categories().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		category.Name = req.Name
		category.Remark = req.Remark

		if err := repos.Categories().Save(ctx, category); err != nil {
			return err
		}
		resp = toCategoryResponse(category)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Categories().FindByIDForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		return repos.Categories().DeleteForTenant(ctx, tenantID, id)
	})
}

// List returns categories for a tenant
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, page, pageSize int, search string) (*shared.Paginated[CategoryResponse], error) {
	var result *shared.Paginated[CategoryResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := shared.DefaultFilter()
		if page > 0 {
			filter.Page = page
		}
		if pageSize > 0 {
			filter.PageSize = pageSize
		}
		filter.Search = search

		categories, err := repos.Categories().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		total, err := repos.Categories().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		items := make([]CategoryResponse, 0, len(categories))
		for i := range categories {
			items = append(items, *toCategoryResponse(&categories[i]))
		}
		paginated := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		result = &paginated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
