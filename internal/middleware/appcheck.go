package middleware

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/appcheck"
	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/roadwatch/internal/pkg/logger"
	"github.com/xyz-asif/roadwatch/internal/pkg/response"
)

const (
	AppCheckHeader = "X-Firebase-AppCheck"
	AppIDKey       = "appCheckAppID"
)

// AppCheckVerifier validates App Check tokens and returns the app id.
type AppCheckVerifier interface {
	Verify(token string) (string, error)
}

type firebaseAppCheck struct {
	client *appcheck.Client
}

// NewFirebaseAppCheck builds a verifier backed by the Firebase Admin SDK.
func NewFirebaseAppCheck(ctx context.Context, app *firebase.App) (AppCheckVerifier, error) {
	client, err := app.AppCheck(ctx)
	if err != nil {
		return nil, fmt.Errorf("init app check client: %w", err)
	}
	return &firebaseAppCheck{client: client}, nil
}

func (f *firebaseAppCheck) Verify(token string) (string, error) {
	decoded, err := f.client.VerifyToken(token)
	if err != nil {
		return "", err
	}
	return decoded.AppID, nil
}

// AppCheck rejects requests without a valid App Check token. A nil verifier
// disables the check.
func AppCheck(verifier AppCheckVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		token := c.GetHeader(AppCheckHeader)
		if token == "" {
			response.Unauthorized(c, "App Check token required", "APP_CHECK_REQUIRED")
			c.Abort()
			return
		}

		appID, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("appcheck: rejected token from %s: %v", c.ClientIP(), err)
			response.Unauthorized(c, "Invalid App Check token", "APP_CHECK_INVALID")
			c.Abort()
			return
		}

		c.Set(AppIDKey, appID)
		c.Next()
	}
}
