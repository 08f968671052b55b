package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/partner"
	"github.com/udyog/backend/internal/domain/shared"
)

// CustomerService manages trading parties. It never touches the outstanding
// amount directly; that field belongs to the ledger.
type CustomerService struct {
	scope scope.TransactionScope
	log   *zap.Logger
}

// NewCustomerService creates a customer service
func NewCustomerService(txScope scope.TransactionScope, log *zap.Logger) *CustomerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CustomerService{scope: txScope, log: log}
}

// Create creates a customer with a zero outstanding amount
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	var resp *CustomerResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		customer, err := partner.NewCustomer(tenantID, req.Name)
		if err != nil {
			return err
		}
		customer.Phone = req.Phone
		customer.Email = req.Email
		customer.Address = req.Address
		customer.GSTNumber = req.GSTNumber
		customer.Remark = req.Remark

		if err := repos.Customers().Save(ctx, customer); err != nil {
			return err
		}
		resp = toCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", resp.ID.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// Update updates a customer's identity fields, leaving the balance untouched
func (s *CustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	var resp *CustomerResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		customer.Name = req.Name
		customer.Phone = req.Phone
		customer.Email = req.Email
		customer.Address = req.Address
		customer.GSTNumber = req.GSTNumber
		customer.Remark = req.Remark

		if err := repos.Customers().Save(ctx, customer); err != nil {
			return err
		}
		resp = toCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Customers().FindByIDForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		return repos.Customers().DeleteForTenant(ctx, tenantID, id)
	})
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	var resp *CustomerResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		resp = toCustomerResponse(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// List returns customers for a tenant, optionally only those with a non-zero
// outstanding amount
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, req ListCustomersRequest) (*shared.Paginated[CustomerResponse], error) {
	var page *shared.Paginated[CustomerResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := shared.DefaultFilter()
		if req.Page > 0 {
			filter.Page = req.Page
		}
		if req.PageSize > 0 {
			filter.PageSize = req.PageSize
		}
		filter.Search = req.Search

		var customers []partner.Customer
		var err error
		if req.OnlyOutstanding {
			customers, err = repos.Customers().FindWithOutstanding(ctx, tenantID, filter)
		} else {
			customers, err = repos.Customers().FindAllForTenant(ctx, tenantID, filter)
		}
		if err != nil {
			return err
		}

		total, err := repos.Customers().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		items := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			items = append(items, *toCustomerResponse(&customers[i]))
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
