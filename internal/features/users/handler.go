package users

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
)

// Directory reads user profiles. *auth.Repository implements it.
type Directory interface {
	ListByUsername(ctx context.Context) ([]auth.User, error)
	GetUserByID(ctx context.Context, userID string) (*auth.User, error)
}

type Handler struct {
	users Directory
}

func NewHandler(users Directory) *Handler {
	return &Handler{users: users}
}

// ListUsers godoc
// @Summary List users
// @Description Every user sorted by username, for the author filter
// @Tags users
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=[]auth.PublicUser}
// @Router /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListByUsername(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]auth.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	response.Success(c, out)
}

// GetUser godoc
// @Summary Get user profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.SuccessResponse{data=auth.PublicUser}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user.ToPublic())
}
