package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderservice/internal/domain/model"
)

// RequestContextKey is a gin context key for the verified caller.
const RequestContextKey = "orderservice.request"

// IdentityVerifier resolves a bearer token into the caller identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// RequestContext is what the auth gates hand to handlers.
type RequestContext struct {
	Identity model.Identity
	Token    string
}

// Authenticate rejects requests without a verifiable bearer token.
func Authenticate(verifier IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := verify(c, verifier); !ok {
			return
		}
		c.Next()
	}
}

// RequireRole verifies the token like Authenticate and then checks the
// caller role against roles.
func RequireRole(verifier IdentityVerifier, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := verify(c, verifier)
		if !ok {
			return
		}
		if !slices.Contains(roles, rc.Identity.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied: insufficient role"})
			return
		}
		c.Next()
	}
}

func verify(c *gin.Context, verifier IdentityVerifier) (RequestContext, bool) {
	token := extractToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided"})
		return RequestContext{}, false
	}

	identity, err := verifier.Verify(c.Request.Context(), token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": err.Error()})
		return RequestContext{}, false
	}

	rc := RequestContext{Identity: *identity, Token: token}
	c.Set(RequestContextKey, rc)
	return rc, true
}

// CurrentRequest returns the verified caller stored by the auth gates.
func CurrentRequest(c *gin.Context) (RequestContext, bool) {
	val, ok := c.Get(RequestContextKey)
	if !ok {
		return RequestContext{}, false
	}
	rc, ok := val.(RequestContext)
	return rc, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
