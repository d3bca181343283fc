package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingUser  = errors.New("token does not contain a user id")
)

// Claims represents JWT claims
type Claims struct {
	UserID      string `json:"userId"`
	FirebaseUID string `json:"firebaseUid,omitempty"`
	jwt.RegisteredClaims
}

// Config represents JWT configuration
type Config struct {
	Secret        string
	AccessExpiry  time.Duration
	Issuer        string
	Audience      string
	SigningMethod jwt.SigningMethod
}

// DefaultConfig returns default JWT configuration
func DefaultConfig(secret string, expireHours int) *Config {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &Config{
		Secret:        secret,
		AccessExpiry:  time.Duration(expireHours) * time.Hour,
		Issuer:        "roadwatch-api",
		Audience:      "roadwatch-app",
		SigningMethod: jwt.SigningMethodHS256,
	}
}

// GenerateToken signs an access token for the given user.
func GenerateToken(userID, firebaseUID string, cfg *Config) (string, time.Time, error) {
	if cfg == nil {
		return "", time.Time{}, errors.New("JWT config is required")
	}
	if userID == "" {
		return "", time.Time{}, ErrMissingUser
	}

	now := time.Now()
	expiresAt := now.Add(cfg.AccessExpiry)
	claims := &Claims{
		UserID:      userID,
		FirebaseUID: firebaseUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Audience:  []string{cfg.Audience},
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(cfg.SigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates and parses a JWT token
func ValidateToken(tokenString string, cfg *Config) (*Claims, error) {
	if cfg == nil {
		return nil, errors.New("JWT config is required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.Secret), nil
	},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrMissingUser
	}

	return claims, nil
}
