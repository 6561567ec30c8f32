package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/multimart/backend/internal/infrastructure/auth"
	"github.com/multimart/backend/internal/infrastructure/logger"
	"github.com/multimart/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by Authenticate
const (
	UserIDKey = "user_id"
	ClaimsKey = "jwt_claims"
	RoleKey   = "role"

	UserIDHeader = "X-User-ID"
	RoleHeader   = "X-User-Role"
)

// AuthConfig configures principal resolution
type AuthConfig struct {
	JWT         *auth.JWTService
	Revocations auth.RevocationList
	// AllowUserIDHeader accepts X-User-ID (and X-User-Role) without a token
	AllowUserIDHeader bool
	Logger            *zap.Logger
	SkipPaths         []string
}

// Authenticate resolves the calling principal from a bearer token or, when
// allowed, from the X-User-ID header. Requests without a principal get 401.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header != "" && cfg.JWT != nil {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				abortAuth(c, dto.ErrCodeTokenInvalid, "Authorization header must be a bearer token")
				return
			}
			claims, err := cfg.JWT.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredToken) {
					abortAuth(c, dto.ErrCodeTokenExpired, "Token has expired")
					return
				}
				abortAuth(c, dto.ErrCodeTokenInvalid, "Invalid token")
				return
			}
			if revoked(c.Request.Context(), cfg.Revocations, claims.ID, log) {
				abortAuth(c, dto.ErrCodeTokenInvalid, "Token has been revoked")
				return
			}
			c.Set(ClaimsKey, claims)
			setPrincipal(c, claims.UserID, string(claims.Role))
			c.Next()
			return
		}

		if cfg.AllowUserIDHeader {
			if raw := c.GetHeader(UserIDHeader); raw != "" {
				if _, err := uuid.Parse(raw); err != nil {
					abortAuth(c, dto.ErrCodeUnauthorized, "X-User-ID must be a UUID")
					return
				}
				role := c.GetHeader(RoleHeader)
				if role == "" {
					role = string(auth.RoleCustomer)
				}
				setPrincipal(c, raw, role)
				c.Next()
				return
			}
		}

		abortAuth(c, dto.ErrCodeUnauthorized, "Authentication required")
	}
}

// revoked fails open: a revocation store outage must not lock everyone out
func revoked(ctx context.Context, list auth.RevocationList, jti string, log *zap.Logger) bool {
	if list == nil || jti == "" {
		return false
	}
	ok, err := list.IsRevoked(ctx, jti)
	if err != nil {
		log.Warn("Token revocation check failed", zap.Error(err))
		return false
	}
	return ok
}

func setPrincipal(c *gin.Context, userID, role string) {
	c.Set(UserIDKey, userID)
	c.Set(RoleKey, role)
	if role == string(auth.RoleVendor) {
		c.Set("vendor_id", userID)
	}
	ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
	c.Request = c.Request.WithContext(ctx)
}

// RequireRole rejects principals whose role is not in roles. Admins pass every check.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := auth.Role(c.GetString(RoleKey))
		if role == auth.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.ErrCodeForbidden, "Insufficient role for this operation", c.GetString(RequestIDContextKey)))
	}
}

// RequireVendor restricts a route group to vendors
func RequireVendor() gin.HandlerFunc {
	return RequireRole(auth.RoleVendor)
}

// RequireAdmin restricts a route group to administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin)
}

// GetUserID returns the authenticated principal
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(UserIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetClaims returns the validated token claims, if the request carried a token
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func abortAuth(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, c.GetString(RequestIDContextKey)))
}
