package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	apperrors "github.com/xyz-asif/roadwatch/pkg/errors"
)

// NewFirebaseApp initializes the Firebase Admin SDK from a service account file.
func NewFirebaseApp(ctx context.Context, credentialsPath string) (*firebase.App, error) {
	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	return app, nil
}

// IdentityProvider manages accounts in the external identity service.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseIdentity implements IdentityProvider with Firebase Auth.
type FirebaseIdentity struct {
	client *auth.Client
}

func NewFirebaseIdentity(ctx context.Context, app *firebase.App) (*FirebaseIdentity, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	return &FirebaseIdentity{client: client}, nil
}

func (f *FirebaseIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("firebase create user: %w", apperrors.ErrDuplicate)
		}
		return "", fmt.Errorf("firebase create user: %w", err)
	}
	return record.UID, nil
}

func (f *FirebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("verify id token: %v: %w", err, apperrors.ErrUnauthorized)
	}
	return token.UID, nil
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}
