package filter

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth gin.HandlerFunc) {
	filters := router.Group("/filters")
	{
		filters.GET("/catalog", handler.GetCatalog)

		session := filters.Group("/session")
		session.Use(requireAuth)
		{
			session.GET("", handler.GetSession)
			session.DELETE("", handler.Discard)
			session.POST("/events", handler.Dispatch)
			session.POST("/reset", handler.Reset)
			session.POST("/reset-users", handler.ResetUsers)
		}
	}
}
