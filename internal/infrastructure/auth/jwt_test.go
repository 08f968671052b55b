package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udyog/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "udyog-test",
		MaxRefreshCount:        3,
	})
}

func testInput() TokenInput {
	return TokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Name:     "Test User",
		Role:     "ADMIN",
	}
}

func TestGenerateAndValidatePair(t *testing.T) {
	svc := testJWTService()
	input := testInput()

	pair, err := svc.GeneratePair(input)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(testInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := testJWTService()
	_, err := svc.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(testInput())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:                 "different-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "udyog-test",
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshPairIncrementsCount(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(testInput())
	require.NoError(t, err)

	refreshed, err := svc.RefreshPair(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.RefreshCount)
}

func TestRefreshPairEnforcesMaxCount(t *testing.T) {
	svc := testJWTService()
	pair, err := svc.GeneratePair(testInput())
	require.NoError(t, err)

	token := pair.RefreshToken
	for i := 0; i < 3; i++ {
		refreshed, err := svc.RefreshPair(token)
		require.NoError(t, err)
		token = refreshed.RefreshToken
	}

	_, err = svc.RefreshPair(token)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestInMemoryBlacklist(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	found, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, bl.Add(ctx, "jti-1", time.Minute))
	found, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestInMemoryBlacklistExpires(t *testing.T) {
	bl := NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, bl.Add(ctx, "jti-2", -time.Second))
	found, err := bl.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, found)
}
