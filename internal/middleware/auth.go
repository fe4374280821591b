package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/pkg/auth"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": message})
}

// Authenticate validates the Bearer access token and stores the caller's
// identity on the request context.
func Authenticate(jwtManager *auth.JWTManager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warnf("Middleware: Invalid Authorization header format")
			abortUnauthorized(c, "Invalid Authorization header format")
			return
		}

		claims, err := jwtManager.Verify(parts[1])
		if err != nil {
			log.Warnf("Middleware: Token verification failed: %v", err)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, domain.Role(claims.Role))
		c.Next()
	}
}

// RequireRole guards a route group to the given roles. Must run after
// Authenticate.
func RequireRole(log *logrus.Logger, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		log.Warnf("Middleware: User %d with role %s denied (requires one of %v)", UserID(c), role, roles)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "message": "Insufficient permissions"})
	}
}

func UserID(c *gin.Context) int64 {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func UserRole(c *gin.Context) domain.Role {
	if v, ok := c.Get(ctxUserRole); ok {
		if role, ok := v.(domain.Role); ok {
			return role
		}
	}
	return ""
}
