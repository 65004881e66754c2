package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/auth"
)

// Context keys set by AuthMiddleware
const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "user_role"
)

// AuthMiddleware validates the bearer token and puts the caller identity
// on the request context. Health endpoints pass through.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/health") ||
			strings.HasPrefix(c.Request.URL.Path, "/ready") {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "INVALID_TOKEN", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := auth.ParseToken(jwtSecret, parts[1])
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(CtxRoleKey)
		if !exists {
			abortForbidden(c, "NO_ROLE", "User role not found")
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			abortForbidden(c, "INVALID_ROLE", "Invalid user role format")
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		abortForbidden(c, "INSUFFICIENT_PERMISSIONS", "Required role: "+strings.Join(allowedRoles, " or "))
	}
}

// UserID returns the authenticated user id from the context.
func UserID(c *gin.Context) (int64, bool) {
	val, exists := c.Get(CtxUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, code, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}
