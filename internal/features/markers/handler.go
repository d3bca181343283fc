package markers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
	"github.com/xyz-asif/roadwatch/internal/features/filter"
	"github.com/xyz-asif/roadwatch/internal/pkg/cloudinary"
	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/metrics"
	"github.com/xyz-asif/roadwatch/internal/pkg/pagination"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
	"github.com/xyz-asif/roadwatch/internal/pkg/validator"
)

// Store is the marker persistence used by the handlers. *Repository implements it.
type Store interface {
	Create(ctx context.Context, marker *Marker) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Marker, error)
	Find(ctx context.Context, filter bson.M, page pagination.Request) ([]Marker, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AuthorLookup resolves marker authors.
type AuthorLookup interface {
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*auth.User, error)
}

// LikeIndex answers like questions about markers and removes a marker's likes.
type LikeIndex interface {
	HasLiked(ctx context.Context, markerID, userID primitive.ObjectID) (bool, error)
	LikedMarkers(ctx context.Context, userID primitive.ObjectID, markerIDs []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	DeleteByMarker(ctx context.Context, markerID primitive.ObjectID) (int64, error)
}

type Handler struct {
	store    Store
	authors  AuthorLookup
	likes    LikeIndex
	images   cloudinary.Uploader
	points   auth.PointsLedger
	catalog  *filter.Catalog
	sessions *filter.SessionStore
}

func NewHandler(
	store Store,
	authors AuthorLookup,
	likes LikeIndex,
	images cloudinary.Uploader,
	points auth.PointsLedger,
	catalog *filter.Catalog,
	sessions *filter.SessionStore,
) *Handler {
	return &Handler{
		store:    store,
		authors:  authors,
		likes:    likes,
		images:   images,
		points:   points,
		catalog:  catalog,
		sessions: sessions,
	}
}

// CreateMarker godoc
// @Summary Report an incident
// @Tags markers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param type formData string true "Incident type"
// @Param lat formData number true "Latitude"
// @Param lng formData number true "Longitude"
// @Param image formData file true "Photo"
// @Success 201 {object} response.SuccessResponse{data=MarkerResponse}
// @Failure 422 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Router /markers [post]
func (h *Handler) CreateMarker(c *gin.Context) {
	ctx := c.Request.Context()
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req CreateMarkerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	valid, errs := ValidateCreate(&req, h.catalog)
	if errs == nil {
		errs = validator.Errors{}
	}

	header, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		errs.Add("image", "Image is required")
	case err != nil:
		errs.Add("image", "Image could not be read")
	default:
		if verr := cloudinary.ValidateImageFile(header); verr != nil {
			errs.Add("image", verr.Error())
		}
	}

	if len(errs) > 0 {
		response.FieldErrors(c, errs)
		return
	}

	if h.images == nil {
		response.ServiceUnavailable(c, "Image storage is not configured", "STORAGE_UNAVAILABLE")
		return
	}

	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Image could not be read", "INVALID_IMAGE")
		return
	}
	defer file.Close()

	uploaded, err := h.images.UploadImage(ctx, file, cloudinary.FolderMarkers)
	if err != nil {
		response.FromError(c, err)
		return
	}

	marker := &Marker{
		UserID:      user.ID,
		Type:        valid.Type,
		Title:       valid.Title,
		Description: valid.Description,
		Image:       Image{URL: uploaded.URL, PublicID: uploaded.PublicID},
		Location:    valid.Location,
	}

	if err := h.store.Create(ctx, marker); err != nil {
		h.deleteImage(marker.Image.PublicID)
		response.FromError(c, err)
		return
	}

	if err := h.points.Award(ctx, user.ID, auth.PointsPerMarker); err != nil {
		logger.Error("markers: award points to %s for %s: %v", user.ID.Hex(), marker.ID.Hex(), err)
	}

	metrics.MarkersCreatedTotal.WithLabelValues(marker.Type).Inc()
	logger.Info("markers: %s reported %q (%s)", user.Username, marker.Title, marker.ID.Hex())

	author := user.ToPublic()
	author.Points += auth.PointsPerMarker
	response.Created(c, toResponse(marker, &author, false))
}

// ListMarkers godoc
// @Summary List markers
// @Description Filters: q, type (repeated), user (repeated), distance (km, needs lat/lng), from, to
// @Tags markers
// @Produce json
// @Param q query string false "Title contains"
// @Param type query []string false "Incident types" collectionFormat(multi)
// @Param user query []string false "Author ids" collectionFormat(multi)
// @Param distance query number false "Max distance in km"
// @Param lat query number false "Caller latitude"
// @Param lng query number false "Caller longitude"
// @Param from query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param to query string false "End date (YYYY-MM-DD or RFC3339)"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.PaginatedResponse{data=[]MarkerResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /markers [get]
func (h *Handler) ListMarkers(c *gin.Context) {
	state, err := StateFromQuery(c.Request.URL.Query(), h.catalog)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.list(c, state)
}

// ListSessionMarkers godoc
// @Summary List markers matching the caller's filter session
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Param lat query number false "Caller latitude"
// @Param lng query number false "Caller longitude"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.PaginatedResponse{data=[]MarkerResponse}
// @Failure 400 {object} response.ErrorResponse
// @Router /filters/session/markers [get]
func (h *Handler) ListSessionMarkers(c *gin.Context) {
	owner, ok := filter.SessionOwner(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	h.list(c, h.sessions.Get(owner).Snapshot())
}

func (h *Handler) list(c *gin.Context, state filter.State) {
	ctx := c.Request.Context()

	var loc LocationQuery
	if err := c.ShouldBindQuery(&loc); err != nil {
		response.BadRequest(c, "Invalid lat or lng", "INVALID_LOCATION")
		return
	}

	query, err := BuildQuery(state, loc.Ref())
	if err != nil {
		response.FromError(c, err)
		return
	}

	page := pagination.FromRequest(c.Query("page"), c.Query("limit"))
	markers, total, err := h.store.Find(ctx, query, page)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.enrich(ctx, c, markers)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Paginated(c, items, total, page.Limit, page.Page)
}

// GetMarker godoc
// @Summary Get a marker
// @Tags markers
// @Produce json
// @Param id path string true "Marker ID"
// @Success 200 {object} response.SuccessResponse{data=MarkerResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /markers/{id} [get]
func (h *Handler) GetMarker(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	marker, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.enrich(ctx, c, []Marker{*marker})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items[0])
}

// DeleteMarker godoc
// @Summary Delete own marker
// @Description Removes the marker, its likes, its photo and the points they earned
// @Tags markers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marker ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /markers/{id} [delete]
func (h *Handler) DeleteMarker(c *gin.Context) {
	ctx := c.Request.Context()
	user, ok := auth.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	marker, err := h.store.GetByID(ctx, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !marker.IsOwnedBy(user.ID) {
		response.Forbidden(c, "Only the author can delete this marker", "FORBIDDEN")
		return
	}

	if err := h.store.Delete(ctx, id); err != nil {
		response.FromError(c, err)
		return
	}

	removedLikes, err := h.likes.DeleteByMarker(ctx, id)
	if err != nil {
		logger.Error("markers: delete likes of %s: %v", id.Hex(), err)
	}

	delta := -(auth.PointsPerMarker + int(removedLikes)*auth.PointsPerLike)
	if err := h.points.Award(ctx, marker.UserID, delta); err != nil {
		logger.Error("markers: revoke points of %s for %s: %v", marker.UserID.Hex(), id.Hex(), err)
	}

	h.deleteImage(marker.Image.PublicID)

	response.Success(c, gin.H{"id": id, "deleted": true})
}

// enrich attaches authors, display dates and, for an authenticated caller, like state.
func (h *Handler) enrich(ctx context.Context, c *gin.Context, markers []Marker) ([]MarkerResponse, error) {
	authorIDs := make([]primitive.ObjectID, 0, len(markers))
	markerIDs := make([]primitive.ObjectID, 0, len(markers))
	for _, m := range markers {
		authorIDs = append(authorIDs, m.UserID)
		markerIDs = append(markerIDs, m.ID)
	}

	authors, err := h.authors.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}

	liked := map[primitive.ObjectID]bool{}
	if userID, ok := auth.CurrentUserID(c); ok {
		if liked, err = h.likes.LikedMarkers(ctx, userID, markerIDs); err != nil {
			return nil, fmt.Errorf("load likes: %w", err)
		}
	}

	out := make([]MarkerResponse, 0, len(markers))
	for i := range markers {
		var author *auth.PublicUser
		if u, ok := authors[markers[i].UserID]; ok {
			pub := u.ToPublic()
			author = &pub
		}
		out = append(out, toResponse(&markers[i], author, liked[markers[i].ID]))
	}
	return out, nil
}

func (h *Handler) deleteImage(publicID string) {
	if publicID == "" || h.images == nil {
		return
	}
	if err := h.images.Delete(context.Background(), publicID); err != nil {
		logger.Warn("markers: delete image %s: %v", publicID, err)
	}
}

func toResponse(m *Marker, author *auth.PublicUser, hasLiked bool) MarkerResponse {
	return MarkerResponse{
		Marker:        *m,
		Lat:           m.Location.Lat(),
		Lng:           m.Location.Lng(),
		FormattedDate: filter.FormatTimestamp(m.CreatedAt.UTC()),
		Author:        author,
		HasLiked:      hasLiked,
	}
}

func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid marker ID format", "INVALID_ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
