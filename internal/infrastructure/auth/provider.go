package auth

import (
	"context"

	appidentity "github.com/udyog/backend/internal/application/identity"
	"github.com/udyog/backend/internal/domain/identity"
)

// TokenProvider adapts the JWT service and blacklist to the application
// layer's token port
type TokenProvider struct {
	jwt       *JWTService
	blacklist TokenBlacklist
}

// NewTokenProvider creates a token provider
func NewTokenProvider(jwtService *JWTService, blacklist TokenBlacklist) *TokenProvider {
	return &TokenProvider{jwt: jwtService, blacklist: blacklist}
}

// Issue creates a token pair for an authenticated user
func (p *TokenProvider) Issue(user *identity.User) (*appidentity.TokenPair, error) {
	pair, err := p.jwt.GeneratePair(TokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Name:     user.Name,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}
	return toPair(pair), nil
}

// Refresh exchanges a valid refresh token for a new pair
func (p *TokenProvider) Refresh(_ context.Context, refreshToken string) (*appidentity.TokenPair, error) {
	pair, err := p.jwt.RefreshPair(refreshToken)
	if err != nil {
		return nil, err
	}
	return toPair(pair), nil
}

// Revoke blacklists an access token for its remaining lifetime
func (p *TokenProvider) Revoke(ctx context.Context, accessToken string) error {
	claims, err := p.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}
	return p.blacklist.Add(ctx, claims.ID, claims.RemainingTTL())
}

func toPair(pair *TokenPair) *appidentity.TokenPair {
	return &appidentity.TokenPair{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             "Bearer",
	}
}

var _ appidentity.TokenProvider = (*TokenProvider)(nil)
