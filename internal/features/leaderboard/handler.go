package leaderboard

import (
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetLeaderboard godoc
// @Summary Leaderboard
// @Description Users by points. The podium holds ranks 1-3, entries are paginated from rank 4.
// @Tags leaderboard
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.SuccessResponse{data=PageResponse}
// @Router /leaderboard [get]
func (h *Handler) GetLeaderboard(c *gin.Context) {
	board, err := h.service.Board(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))
	response.Success(c, board.Page(page.Page, page.Limit))
}
