package filter

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/pkg/metrics"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// DispatchRequest carries a batch of events applied in order.
type DispatchRequest struct {
	Events []json.RawMessage `json:"events" binding:"required,min=1"`
}

// CatalogResponse lists the filter options.
type CatalogResponse struct {
	*Catalog
	DefaultState StateView `json:"defaultState"`
}

type Handler struct {
	catalog  *Catalog
	sessions *SessionStore
}

func NewHandler(catalog *Catalog, sessions *SessionStore) *Handler {
	return &Handler{catalog: catalog, sessions: sessions}
}

// GetCatalog godoc
// @Summary Filter options
// @Description Incident categories, distance slider range and placeholder labels
// @Tags filters
// @Produce json
// @Success 200 {object} response.SuccessResponse{data=CatalogResponse}
// @Router /filters/catalog [get]
func (h *Handler) GetCatalog(c *gin.Context) {
	response.Success(c, CatalogResponse{
		Catalog:      h.catalog,
		DefaultState: h.catalog.Reducer().Default().View(),
	})
}

// GetSession godoc
// @Summary Current filter state
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=StateView}
// @Router /filters/session [get]
func (h *Handler) GetSession(c *gin.Context) {
	owner, ok := SessionOwner(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	response.Success(c, h.sessions.Get(owner).Snapshot().View())
}

// Dispatch godoc
// @Summary Apply filter events
// @Description Events are applied in order. An invalid event rejects the whole batch.
// @Tags filters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DispatchRequest true "Events"
// @Success 200 {object} response.SuccessResponse{data=StateView}
// @Failure 400 {object} response.ErrorResponse
// @Router /filters/session/events [post]
func (h *Handler) Dispatch(c *gin.Context) {
	owner, ok := SessionOwner(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}

	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	events, err := DecodeEvents(req.Events)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.validate(events); err != nil {
		response.FromError(c, err)
		return
	}

	state := h.sessions.Get(owner).Dispatch(events...)
	for _, e := range events {
		metrics.FilterEventsTotal.WithLabelValues(EventName(e)).Inc()
	}
	response.Success(c, state.View())
}

// Reset godoc
// @Summary Reset every filter
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=StateView}
// @Router /filters/session/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	h.apply(c, ResetAll{})
}

// ResetUsers godoc
// @Summary Clear the author selection
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse{data=StateView}
// @Router /filters/session/reset-users [post]
func (h *Handler) ResetUsers(c *gin.Context) {
	h.apply(c, ResetUsers{})
}

// Discard godoc
// @Summary Discard the filter session
// @Tags filters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.SuccessResponse
// @Router /filters/session [delete]
func (h *Handler) Discard(c *gin.Context) {
	owner, ok := SessionOwner(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	existed := h.sessions.Discard(owner)
	response.Success(c, gin.H{"discarded": existed})
}

func (h *Handler) apply(c *gin.Context, e Event) {
	owner, ok := SessionOwner(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "AUTH_REQUIRED")
		return
	}
	state := h.sessions.Get(owner).Dispatch(e)
	metrics.FilterEventsTotal.WithLabelValues(EventName(e)).Inc()
	response.Success(c, state.View())
}

// validate rejects categories outside the catalog and malformed author ids.
func (h *Handler) validate(events []Event) error {
	for i, e := range events {
		switch e := e.(type) {
		case TypeToggled:
			if !h.catalog.HasType(e.Label) {
				return fmt.Errorf("event %d: unknown type %q: %w", i, e.Label, apperrors.ErrBadRequest)
			}
		case UserToggled:
			if !primitive.IsValidObjectID(e.ID) {
				return fmt.Errorf("event %d: invalid user id %q: %w", i, e.ID, apperrors.ErrBadRequest)
			}
		}
	}
	return nil
}

// SessionOwner is the key of the caller's filter session: the authenticated user id.
func SessionOwner(c *gin.Context) (string, bool) {
	id := c.GetString("userID")
	return id, id != ""
}
