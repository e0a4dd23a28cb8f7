package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts sign-up/login, the caller's own profile and the admin user directory.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	me := g.Group("/me", authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
	}

	usersGroup := g.Group("/users", authMiddleware, adminMiddleware)
	{
		usersGroup.GET("", h.List)
		usersGroup.GET("/:id", h.Get)
		usersGroup.PATCH("/:id", h.Update)
		usersGroup.DELETE("/:id", h.Delete)
	}
}
