package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/api/policy"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Auth validates the bearer token and stores the resulting actor in the
// request context. Requests without a valid token are rejected with 401.
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(actorKey, &policy.Actor{
			ID:        claims.UserID,
			Username:  claims.Username,
			Role:      claims.Role,
			Superuser: claims.Superuser,
		})
		c.Next()
	}
}

// ActorFromContext returns the authenticated actor, or nil on routes
// that never passed through Auth.
func ActorFromContext(c *gin.Context) *policy.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*policy.Actor)
	if !ok {
		return nil
	}
	return actor
}
