package users

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, handler *Handler) {
	users := router.Group("/users")
	{
		users.GET("", handler.ListUsers)
		users.GET("/:id", handler.GetUser)
	}
}
