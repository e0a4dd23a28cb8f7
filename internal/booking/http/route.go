package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking endpoints. Every route needs an identified caller.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id/status", h.UpdateStatus)
	}
}
