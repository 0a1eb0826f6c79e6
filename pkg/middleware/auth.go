package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docugrade/docugrade/internal/models"
	"github.com/docugrade/docugrade/internal/tokens"
)

// ContextUserKey is where Authenticated stores the resolved *models.User.
const ContextUserKey = "user"

// UserSource is the minimal lookup the middleware needs; users.Service
// satisfies it.
type UserSource interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticated verifies the Bearer token and resolves its subject to a user.
// Missing header, malformed token, expired token and a deleted account all
// produce the same 401: none of them may reveal whether an account exists.
func Authenticated(issuer *tokens.Issuer, source UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		subject, ok := issuer.Verify(raw)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		u, err := source.GetByEmail(c.Request.Context(), subject)
		if err != nil || u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(ContextUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Authenticated.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
