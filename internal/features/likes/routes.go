package likes

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the like-related routes under /markers.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth, optionalAuth gin.HandlerFunc) {
	markersGroup := router.Group("/markers")
	{
		markersGroup.POST("/:id/like", requireAuth, handler.LikeAction)
		markersGroup.GET("/:id/like/status", optionalAuth, handler.GetLikeStatus)
		markersGroup.GET("/:id/likes", optionalAuth, handler.ListLikers)
	}
}
