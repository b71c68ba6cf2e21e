package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"appointments/internal/domain"
	jwtsvc "appointments/internal/pkg/jwt"
	"appointments/internal/pkg/response"
)

const (
	ctxUserID     = "user_id"
	ctxRole       = "role"
	ctxProviderID = "provider_id"
)

// JWTAuth requires a valid bearer token and stores the identity in the context.
func JWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.AbortError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		tokenStr, ok := bearerToken(h)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth resolves the identity when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalJWTAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := jwt.ValidateToken(tokenStr); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(h string) (string, bool) {
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tokenStr, tokenStr != ""
}

func setIdentity(c *gin.Context, claims *jwtsvc.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	if claims.ProviderID != nil {
		c.Set(ctxProviderID, *claims.ProviderID)
	}
}

// CurrentUser returns the identity resolved by JWTAuth, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *domain.User {
	userID := c.GetInt64(ctxUserID)
	if userID == 0 {
		return nil
	}
	u := &domain.User{ID: userID, Role: domain.UserRole(c.GetString(ctxRole))}
	if v, ok := c.Get(ctxProviderID); ok {
		if pid, ok := v.(int64); ok {
			u.ProviderID = &pid
		}
	}
	return u
}
