package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the service catalog under /services.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/services")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", authMiddleware, h.Create)
		group.PATCH("/:id", authMiddleware, h.Update)
		group.DELETE("/:id", authMiddleware, h.Delete)
	}
}
