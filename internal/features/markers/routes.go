package markers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers marker routes. createLimit throttles marker creation per user.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth, optionalAuth, createLimit gin.HandlerFunc) {
	markers := router.Group("/markers")
	{
		markers.POST("", requireAuth, createLimit, handler.CreateMarker)
		markers.GET("", optionalAuth, handler.ListMarkers)
		markers.GET("/:id", optionalAuth, handler.GetMarker)
		markers.DELETE("/:id", requireAuth, handler.DeleteMarker)
	}

	router.GET("/filters/session/markers", requireAuth, handler.ListSessionMarkers)
}
