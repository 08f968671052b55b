package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/catalog"
	"github.com/udyog/backend/internal/domain/shared"
)

// ProductService manages the product catalog. Stock quantity is read-only
// from here; the ledger owns all mutation of it.
type ProductService struct {
	scope scope.TransactionScope
	log   *zap.Logger
}

// NewProductService creates a product service
func NewProductService(txScope scope.TransactionScope, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{scope: txScope, log: log}
}

// Create creates a product with zero stock
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	var resp *ProductResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if req.CategoryID != nil {
			if _, err := repos.Categories().FindByIDForTenant(ctx, tenantID, *req.CategoryID); err != nil {
				return err
			}
		}

		product, err := catalog.NewProduct(tenantID, req.Name)
		if err != nil {
			return err
		}
		product.Code = req.Code
		product.CategoryID = req.CategoryID
		product.Unit = req.Unit
		product.PurchasePrice = req.PurchasePrice
		product.SalePrice = req.SalePrice
		product.Remark = req.Remark
		if err := product.SetMinimumStock(req.MinimumStock); err != nil {
			return err
		}

		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		resp = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", resp.ID.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// Update updates a product's descriptive fields, never its quantity
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var resp *ProductResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if req.CategoryID != nil {
			if _, err := repos.Categories().FindByIDForTenant(ctx, tenantID, *req.CategoryID); err != nil {
				return err
			}
		}

		product.Name = req.Name
		product.Code = req.Code
		product.CategoryID = req.CategoryID
		product.Unit = req.Unit
		product.PurchasePrice = req.PurchasePrice
		product.SalePrice = req.SalePrice
		product.Remark = req.Remark
		if err := product.SetMinimumStock(req.MinimumStock); err != nil {
			return err
		}

		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		resp = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Products().FindByIDForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		return repos.Products().DeleteForTenant(ctx, tenantID, id)
	})
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	var resp *ProductResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns products for a tenant, optionally only those below their
// minimum stock threshold
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, req ListProductsRequest) (*shared.Paginated[ProductResponse], error) {
	var page *shared.Paginated[ProductResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := shared.DefaultFilter()
		if req.Page > 0 {
			filter.Page = req.Page
		}
		if req.PageSize > 0 {
			filter.PageSize = req.PageSize
		}
		filter.Search = req.Search

		var products []catalog.Product
		var err error
		if req.BelowMinimum {
			products, err = repos.Products().FindBelowMinimum(ctx, tenantID, filter)
		} else {
			products, err = repos.Products().FindAllForTenant(ctx, tenantID, filter)
		}
		if err != nil {
			return err
		}

		total, err := repos.Products().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		items := make([]ProductResponse, 0, len(products))
		for i := range products {
			items = append(items, *toProductResponse(&products[i]))
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
