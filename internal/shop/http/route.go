package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers shop routes. Reads are public.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/shops")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", authMiddleware, adminMiddleware, h.Create)
		group.PATCH("/:id", authMiddleware, h.Update)
		group.DELETE("/:id", authMiddleware, adminMiddleware, h.Delete)
	}
}
