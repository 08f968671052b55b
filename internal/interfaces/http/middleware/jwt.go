package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/udyog/backend/internal/infrastructure/auth"
	"github.com/udyog/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	ClaimsKey   = "auth_claims"
	TenantIDKey = "auth_tenant_id"
	UserIDKey   = "auth_user_id"
	RoleKey     = "auth_role"

	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// RequireAuth validates the bearer token on every request and stores the
// caller's tenant, user, and role in the gin context. The blacklist is
// optional; when set, revoked tokens are rejected even before expiry.
func RequireAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeader)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "Missing or malformed authorization header")
			return
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			message := "Invalid access token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Access token expired"
			}
			abortUnauthorized(c, message)
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.Contains(c.Request.Context(), claims.ID)
			if err != nil || revoked {
				abortUnauthorized(c, "Access token revoked")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(TenantIDKey, claims.TenantID)
		c.Set(UserIDKey, claims.UserID)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated caller
// holds one of the given roles. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient role", requestID(c)))
	}
}

// TenantID returns the authenticated caller's tenant id
func TenantID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(TenantIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// UserID returns the authenticated caller's user id
func UserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, requestID(c)))
}

func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}
