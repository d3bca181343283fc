package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the auth routes. requireAuth is the middleware
// built by NewAuthMiddleware.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/token", handler.ExchangeToken)
		auth.GET("/me", requireAuth, handler.GetMe)
	}
}
