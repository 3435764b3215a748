package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderservice/internal/server/http/dto"
	"github.com/polkiloo/orderservice/internal/server/http/middleware"
)

// AuthorizedFunc handles a request on behalf of a verified caller.
type AuthorizedFunc func(c *gin.Context, rc middleware.RequestContext) dto.Result

// WithRequestContext hands the verified caller to h and renders its result.
// It must be mounted behind one of the auth gates.
func WithRequestContext(h AuthorizedFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := middleware.CurrentRequest(c)
		if !ok {
			render(c, dto.Fail(http.StatusUnauthorized, "Unauthorized"))
			return
		}
		render(c, h(c, rc))
	}
}

// Render adapts a handler that needs no caller identity.
func Render(h func(c *gin.Context) dto.Result) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, h(c))
	}
}

func render(c *gin.Context, r dto.Result) {
	c.JSON(r.Status, r.Body)
}
