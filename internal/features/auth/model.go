package auth

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Points awarded to a marker's author.
const (
	PointsPerMarker = 10
	PointsPerLike   = 1
)

// User represents a registered user in the system
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirebaseUID   string             `bson:"firebaseUid" json:"-"`
	Email         string             `bson:"email" json:"email"`
	FirstName     string             `bson:"ime" json:"ime"`
	LastName      string             `bson:"prezime" json:"prezime"`
	Phone         string             `bson:"telefon" json:"telefon"`
	Username      string             `bson:"username" json:"username"`
	ImageURL      string             `bson:"imageUrl" json:"imageUrl"`
	ImagePublicID string             `bson:"imagePublicId" json:"-"`
	Points        int                `bson:"points" json:"points"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the part of a profile visible to other users.
type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	ImageURL string             `json:"imageUrl"`
	Points   int                `json:"points"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		ImageURL: u.ImageURL,
		Points:   u.Points,
	}
}

// RegisterRequest is the multipart sign-up form. The optional avatar is sent
// as the "image" file part.
type RegisterRequest struct {
	Ime      string `form:"ime" json:"ime"`
	Prezime  string `form:"prezime" json:"prezime"`
	Telefon  string `form:"telefon" json:"telefon"`
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// TokenRequest exchanges a Firebase ID token for an API token.
type TokenRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// PointsLedger adjusts a user's points. Negative deltas take points away.
type PointsLedger interface {
	Award(ctx context.Context, userID primitive.ObjectID, delta int) error
}
