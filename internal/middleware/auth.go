package middleware

import (
	"net/http"
	"strings"

	"craftlink_backend/internal/auth"
	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware validates the bearer token and stores the claims.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles allows only the listed roles. UserRoleBoth passes any check
// that accepts creator or client.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowBoth := false
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
		if r == models.UserRoleCreator || r == models.UserRoleClient {
			allowBoth = true
		}
	}

	return func(c *gin.Context) {
		role := GetUserRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		if roleSet[role] || (allowBoth && role == models.UserRoleBoth) || role == models.UserRoleAdmin {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
	}
}

// GetUserID reads the authenticated user id from the context.
func GetUserID(c *gin.Context) string {
	val, exists := c.Get(ContextUserIDKey)
	if !exists {
		return ""
	}
	id, _ := val.(string)
	return id
}

// GetUserRole reads the authenticated role from the context.
func GetUserRole(c *gin.Context) models.UserRole {
	val, exists := c.Get(ContextRoleKey)
	if !exists {
		return ""
	}
	switch r := val.(type) {
	case models.UserRole:
		return r
	case string:
		return models.UserRole(r)
	}
	return ""
}
