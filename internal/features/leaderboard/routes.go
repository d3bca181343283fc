package leaderboard

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	router.GET("/leaderboard", handler.GetLeaderboard)
}
