package markers

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
)

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

func NewPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"-"`
}

// Marker is a user-submitted incident report.
type Marker struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Type        string             `bson:"type" json:"type"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       Image              `bson:"image" json:"image"`
	Location    GeoPoint           `bson:"location" json:"location"`
	LikeCount   int                `bson:"likeCount" json:"likeCount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m *Marker) IsOwnedBy(userID primitive.ObjectID) bool {
	return m.UserID == userID
}

// CreateMarkerRequest is the multipart form for POST /markers. The photo is
// sent as the "image" file part.
type CreateMarkerRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Type        string `form:"type"`
	Lat         string `form:"lat"`
	Lng         string `form:"lng"`
}

// LocationQuery is the caller's position, used for distance filtering.
type LocationQuery struct {
	Lat *float64 `form:"lat" binding:"omitempty,lat"`
	Lng *float64 `form:"lng" binding:"omitempty,lng"`
}

// Ref returns the reference point, or nil when the position is incomplete.
func (q LocationQuery) Ref() *GeoPoint {
	if q.Lat == nil || q.Lng == nil {
		return nil
	}
	p := NewPoint(*q.Lat, *q.Lng)
	return &p
}

// MarkerResponse is a marker as shown to clients.
type MarkerResponse struct {
	Marker
	Lat           float64          `json:"lat"`
	Lng           float64          `json:"lng"`
	FormattedDate string           `json:"formattedDate"`
	Author        *auth.PublicUser `json:"author,omitempty"`
	HasLiked      bool             `json:"hasLiked"`
}
