package likes

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/features/auth"
)

const (
	ActionLike   = "like"
	ActionUnlike = "unlike"
)

// Like represents a like on a marker
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MarkerID  primitive.ObjectID `bson:"markerId" json:"markerId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// LikeActionRequest for POST /markers/:id/like
type LikeActionRequest struct {
	Action string `json:"action" binding:"required,oneof=like unlike" example:"like"`
}

// LikeStatusResponse is returned by both the like action and the status endpoint.
type LikeStatusResponse struct {
	HasLiked  bool `json:"hasLiked"`
	LikeCount int  `json:"likeCount"`
}

// LikerResponse for items in the likers list
type LikerResponse struct {
	auth.PublicUser
	LikedAt time.Time `json:"likedAt"`
}
