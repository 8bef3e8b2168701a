package middleware

import (
	"net/http"
	"strings"

	"aurora/internal/auth"
	"aurora/internal/models"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// Authenticate validates the Bearer token and stores the resolved caller
// in the request context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(callerKey, models.Caller{UserID: claims.Subject, Roles: claims.Roles})
		c.Next()
	}
}

// CallerFrom returns the identity set by Authenticate.
func CallerFrom(c *gin.Context) models.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}
	}
	caller, _ := v.(models.Caller)
	return caller
}

// RequireRoles allows the request through when the caller holds any of the
// listed roles. Admins always pass, and lecturers satisfy a student
// requirement.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if caller.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if caller.HasRole(role) {
				c.Next()
				return
			}
			if role == models.RoleStudent && caller.HasRole(models.RoleLecturer) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
