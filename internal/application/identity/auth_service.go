package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udyog/backend/internal/application/scope"
	"github.com/udyog/backend/internal/domain/identity"
	"github.com/udyog/backend/internal/domain/shared"
)

// TokenProvider issues and revokes the tokens the HTTP layer authenticates
// with. The JWT implementation lives in infrastructure.
type TokenProvider interface {
	// Issue creates a token pair for an authenticated user
	Issue(user *identity.User) (*TokenPair, error)

	// Refresh exchanges a valid refresh token for a new pair
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Revoke invalidates an access token for its remaining lifetime
	Revoke(ctx context.Context, accessToken string) error
}

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	scope  scope.TransactionScope
	tokens TokenProvider
	log    *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(txScope scope.TransactionScope, tokens TokenProvider, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{scope: txScope, tokens: tokens, log: log}
}

// Register bootstraps a tenant with its first admin user
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	var resp *LoginResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if existing, err := repos.Users().FindByEmail(ctx, req.Email); err == nil && existing != nil {
			return shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
		}

		tenant, err := identity.NewTenant(req.TenantName)
		if err != nil {
			return err
		}
		if err := repos.Tenants().Save(ctx, tenant); err != nil {
			return err
		}

		user, err := identity.NewUser(tenant.ID, req.Name, req.Email, req.Password, identity.RoleAdmin)
		if err != nil {
			return err
		}
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}

		tokens, err := s.tokens.Issue(user)
		if err != nil {
			return err
		}
		resp = &LoginResponse{User: toUserResponse(user), Tokens: *tokens}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tenant registered",
		zap.String("tenant_id", resp.User.TenantID.String()),
		zap.String("user_id", resp.User.ID.String()),
	)
	return resp, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp *LoginResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		user, err := repos.Users().FindByEmail(ctx, req.Email)
		if err != nil {
			return shared.ErrUnauthorized
		}
		if !user.Active || !user.CheckPassword(req.Password) {
			return shared.ErrUnauthorized
		}

		tenant, err := repos.Tenants().FindByID(ctx, user.TenantID)
		if err != nil || !tenant.Active {
			return shared.ErrUnauthorized
		}

		tokens, err := s.tokens.Issue(user)
		if err != nil {
			return err
		}
		resp = &LoginResponse{User: toUserResponse(user), Tokens: *tokens}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", resp.User.ID.String()))
	return resp, nil
}

// Refresh exchanges a refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenPair, error) {
	return s.tokens.Refresh(ctx, req.RefreshToken)
}

// Logout revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.tokens.Revoke(ctx, accessToken)
}

// CreateUser adds a user to a tenant. Only admins reach this through the
// HTTP layer.
func (s *AuthService) CreateUser(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	var resp *UserResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		if existing, err := repos.Users().FindByEmail(ctx, req.Email); err == nil && existing != nil {
			return shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
		}

		user, err := identity.NewUser(tenantID, req.Name, req.Email, req.Password, identity.Role(req.Role))
		if err != nil {
			return err
		}
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}

		ur := toUserResponse(user)
		resp = &ur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user created",
		zap.String("user_id", resp.ID.String()),
		zap.String("tenant_id", tenantID.String()),
	)
	return resp, nil
}

// ListUsers returns the tenant's users
func (s *AuthService) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]UserResponse, error) {
	var users []UserResponse
	err := s.scope.Execute(ctx, func(repos scope.Repositories) error {
		found, err := repos.Users().FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
		if err != nil {
			return err
		}
		users = make([]UserResponse, 0, len(found))
		for i := range found {
			users = append(users, toUserResponse(&found[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
