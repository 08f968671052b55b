package production

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/production"
	"github.com/udyog/backend/internal/domain/shared"
)

// MachineService manages production machines
type MachineService struct {
	scope scope.TransactionScope
	log   *zap.Logger
}

// NewMachineService creates a machine service
func NewMachineService(txScope scope.TransactionScope, log *zap.Logger) *MachineService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MachineService{scope: txScope, log: log}
}

// Create creates a machine
func (s *MachineService) Create(ctx context.Context, tenantID uuid.UUID, req MachineRequest) (*MachineResponse, error) {
	var resp *MachineResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		machine, err := production.NewMachine(tenantID, req.Name)
		if err != nil {
			return err
		}
		machine.Code = req.Code
		machine.Remark = req.Remark

		if err := repos.Machines().Save(ctx, machine); err != nil {
			return err
		}
		resp = toMachineResponse(machine)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Update updates a machine
func (s *MachineService) Update(ctx context.Context, tenantID, id uuid.UUID, req MachineRequest) (*MachineResponse, error) {
	var resp *MachineResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		machine, err := repos.Machines().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		machine.Name = req.Name
		machine.Code = req.Code
		machine.Remark = req.Remark

		if err := repos.Machines().Save(ctx, machine); err != nil {
			return err
		}
		resp = toMachineResponse(machine)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes a machine
func (s *MachineService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if _, err := repos.Machines().FindByIDForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		return repos.Machines().DeleteForTenant(ctx, tenantID, id)
	})
}

// List returns machines for a tenant
func (s *MachineService) List(ctx context.Context, tenantID uuid.UUID, page, pageSize int, search string) (*shared.Paginated[MachineResponse], error) {
	var result *shared.Paginated[MachineResponse]
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		filter := shared.DefaultFilter()
		if page > 0 {
			filter.Page = page
		}
		if pageSize > 0 {
			filter.PageSize = pageSize
		}
		filter.Search = search

		machines, err := repos.Machines().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		total, err := repos.Machines().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}

		items := make([]MachineResponse, 0, len(machines))
		for i := range machines {
			items = append(items, *toMachineResponse(&machines[i]))
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
