package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/roadwatch/internal/pkg/jwt"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
)

// Context keys set by the auth middleware.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
)

// UserLookup resolves the user named in a token.
type UserLookup interface {
	GetUserByID(ctx context.Context, userID string) (*User, error)
}

// NewAuthMiddleware creates a Gin middleware for JWT authentication
func NewAuthMiddleware(users UserLookup, jwtCfg *jwt.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenString, jwtCfg)
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token", "INVALID_TOKEN")
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Unauthorized(c, "User not found", "USER_NOT_FOUND")
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// NewOptionalAuthMiddleware sets the user when a valid token is present and
// lets anonymous requests through otherwise.
func NewOptionalAuthMiddleware(users UserLookup, jwtCfg *jwt.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if claims, err := jwt.ValidateToken(tokenString, jwtCfg); err == nil {
				if user, err := users.GetUserByID(c.Request.Context(), claims.UserID); err == nil {
					setUser(c, user)
				}
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok && user != nil
}

// CurrentUserID returns the authenticated user's id, if any.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	return user.ID, true
}

func setUser(c *gin.Context, user *User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID.Hex())
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
