package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public availability endpoint.
// Extra middleware (rate limiting) is applied to the group.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, middleware ...gin.HandlerFunc) {
	group := g.Group("/availability")
	group.Use(middleware...)
	{
		group.GET("", h.Get)
	}
}
