package likes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/features/markers"
	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/metrics"
	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// Store is the like persistence used by the handler. *Repository implements it.
type Store interface {
	CreateLike(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error)
	DeleteLike(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error)
	HasLiked(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error)
	GetLikers(ctx context.Context, markerID primitive.ObjectID, page pagination.Request) ([]Like, int64, error)
}

// MarkerStore is the part of the marker repository likes need.
type MarkerStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*markers.Marker, error)
	IncrementLikeCount(ctx context.Context, id primitive.ObjectID, delta int) error
}

// Handler handles like-related HTTP requests
type Handler struct {
	repo    Store
	markers MarkerStore
	users   markers.AuthorLookup
	points  auth.PointsLedger
}

// NewHandler creates a new like handler
func NewHandler(repo Store, markerStore MarkerStore, users markers.AuthorLookup, points auth.PointsLedger) *Handler {
	return &Handler{
		repo:    repo,
		markers: markerStore,
		users:   users,
		points:  points,
	}
}

// LikeAction godoc
// @Summary Like or unlike a marker
// @Description Idempotent. Authors cannot like their own markers.
// @Tags likes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marker ID"
// @Param request body LikeActionRequest true "Like action"
// @Success 200 {object} response.SuccessResponse{data=LikeStatusResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /markers/{id}/like [post]
func (h *Handler) LikeAction(c *gin.Context) {
	ctx := c.Request.Context()
	currentUser, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	markerID, ok := parseID(c)
	if !ok {
		return
	}

	var req LikeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	marker, err := h.markers.GetByID(ctx, markerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if marker.IsOwnedBy(currentUser.ID) {
		response.Forbidden(c, "You cannot like your own marker", "SELF_LIKE")
		return
	}

	var changed bool
	if req.Action == ActionLike {
		changed, err = h.repo.CreateLike(ctx, markerID, currentUser.ID)
	} else {
		changed, err = h.repo.DeleteLike(ctx, markerID, currentUser.ID)
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	likeCount := marker.LikeCount
	if changed {
		delta := 1
		if req.Action == ActionUnlike {
			delta = -1
		}
		likeCount, err = h.applyChange(ctx, marker, delta)
		if err != nil {
			if delta > 0 {
				h.rollbackLike(marker.ID, currentUser.ID)
			}
			response.FromError(c, err)
			return
		}
		metrics.LikesTotal.WithLabelValues(req.Action).Inc()
	}

	response.Success(c, LikeStatusResponse{
		HasLiked:  req.Action == ActionLike,
		LikeCount: likeCount,
	})
}

// applyChange moves the marker's like count and its author's points by delta
// and returns the resulting like count. A marker deleted since it was loaded
// yields ErrNotFound and leaves points untouched.
func (h *Handler) applyChange(ctx context.Context, marker *markers.Marker, delta int) (int, error) {
	if err := h.markers.IncrementLikeCount(ctx, marker.ID, delta); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return 0, err
		}
		logger.Error("likes: update like count of %s: %v", marker.ID.Hex(), err)
	}
	if err := h.points.Award(ctx, marker.UserID, delta*auth.PointsPerLike); err != nil {
		logger.Error("likes: award points to %s: %v", marker.UserID.Hex(), err)
	}

	if fresh, err := h.markers.GetByID(ctx, marker.ID); err == nil {
		return fresh.LikeCount, nil
	}
	if n := marker.LikeCount + delta; n > 0 {
		return n, nil
	}
	return 0, nil
}

// rollbackLike removes a like whose marker disappeared while it was stored.
func (h *Handler) rollbackLike(markerID, userID primitive.ObjectID) {
	if _, err := h.repo.DeleteLike(context.Background(), markerID, userID); err != nil {
		logger.Error("likes: roll back like on deleted marker %s: %v", markerID.Hex(), err)
	}
}

// GetLikeStatus godoc
// @Summary Check like status
// @Description hasLiked is false for anonymous callers
// @Tags likes
// @Produce json
// @Param id path string true "Marker ID"
// @Success 200 {object} response.SuccessResponse{data=LikeStatusResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /markers/{id}/like/status [get]
func (h *Handler) GetLikeStatus(c *gin.Context) {
	ctx := c.Request.Context()

	markerID, ok := parseID(c)
	if !ok {
		return
	}

	marker, err := h.markers.GetByID(ctx, markerID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	hasLiked := false
	if userID, ok := auth.CurrentUserID(c); ok {
		if hasLiked, err = h.repo.HasLiked(ctx, markerID, userID); err != nil {
			response.FromError(c, err)
			return
		}
	}

	response.Success(c, LikeStatusResponse{
		HasLiked:  hasLiked,
		LikeCount: marker.LikeCount,
	})
}

// ListLikers godoc
// @Summary List users who liked a marker
// @Tags likes
// @Produce json
// @Param id path string true "Marker ID"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.PaginatedResponse{data=[]LikerResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /markers/{id}/likes [get]
func (h *Handler) ListLikers(c *gin.Context) {
	ctx := c.Request.Context()

	markerID, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.markers.GetByID(ctx, markerID); err != nil {
		response.FromError(c, err)
		return
	}

	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))
	likes, total, err := h.repo.GetLikers(ctx, markerID, page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(likes))
	for _, like := range likes {
		userIDs = append(userIDs, like.UserID)
	}

	users, err := h.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}

	likers := make([]LikerResponse, 0, len(likes))
	for _, like := range likes {
		user, exists := users[like.UserID]
		if !exists {
			continue
		}
		likers = append(likers, LikerResponse{
			PublicUser: user.ToPublic(),
			LikedAt:    like.CreatedAt,
		})
	}

	response.Paginated(c, likers, total, page.Limit, page.Page)
}

func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid marker ID format", "INVALID_ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
