package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts weekly hours and days off under /barbers/:id.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/barbers/:id")
	{
		group.GET("/schedule", h.GetWeek)
		group.PUT("/schedule/:weekday", authMiddleware, h.SetDay)

		group.GET("/days-off", h.ListDaysOff)
		group.POST("/days-off", authMiddleware, h.AddDayOff)
		group.DELETE("/days-off/:date", authMiddleware, h.RemoveDayOff)
	}
}
