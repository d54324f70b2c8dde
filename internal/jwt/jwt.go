package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "tkn" claim. A refresh token is never
// accepted where an access token is expected and vice versa.
const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// AccessCookieName and RefreshCookieName are the HTTP-only cookies the
// API sets on login and rotation.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

var (
	ErrTokenMissing = errors.New("token missing from request")
	ErrTokenInvalid = errors.New("invalid or expired token")
)

// JWT issues and verifies the access/refresh token pair.
type JWT struct {
	accessSecret  string
	refreshSecret string
	accessExp     time.Duration
	refreshExp    time.Duration
}

// Opt configures a JWT instance.
type Opt func(*JWT)

func WithAccessSecret(secret string) Opt {
	return func(j *JWT) { j.accessSecret = secret }
}

func WithRefreshSecret(secret string) Opt {
	return func(j *JWT) { j.refreshSecret = secret }
}

func WithAccessExpiration(exp time.Duration) Opt {
	return func(j *JWT) { j.accessExp = exp }
}

func WithRefreshExpiration(exp time.Duration) Opt {
	return func(j *JWT) { j.refreshExp = exp }
}

// New creates a JWT instance with the given options.
func New(opts ...Opt) *JWT {
	j := &JWT{
		accessExp:  15 * time.Minute,
		refreshExp: 10 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// GenerateAccess creates a signed short-lived access token for userID.
func (j *JWT) GenerateAccess(ctx context.Context, userID uuid.UUID) (string, error) {
	return j.generate(userID, kindAccess, j.accessSecret, j.accessExp)
}

// GenerateRefresh creates a signed long-lived refresh token for userID.
func (j *JWT) GenerateRefresh(ctx context.Context, userID uuid.UUID) (string, error) {
	return j.generate(userID, kindRefresh, j.refreshSecret, j.refreshExp)
}

func (j *JWT) generate(userID uuid.UUID, kind, secret string, exp time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"tkn":     kind,
		"iat":     now.Unix(),
		"exp":     now.Add(exp).Unix(),
		"jti":     uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccess verifies an access token and returns the embedded user id.
func (j *JWT) ParseAccess(ctx context.Context, tokenString string) (uuid.UUID, error) {
	return j.parse(tokenString, kindAccess, j.accessSecret)
}

// ParseRefresh verifies a refresh token and returns the embedded user id.
func (j *JWT) ParseRefresh(ctx context.Context, tokenString string) (uuid.UUID, error) {
	return j.parse(tokenString, kindRefresh, j.refreshSecret)
}

func (j *JWT) parse(tokenString, kind, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	if k, _ := claims["tkn"].(string); k != kind {
		return uuid.Nil, ErrTokenInvalid
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}

// GetTokenFromRequest extracts the access token from the request.
// The accessToken cookie takes precedence over the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	if c, err := r.Cookie(AccessCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrTokenMissing
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", ErrTokenMissing
	}
	return parts[1], nil
}

// GetRefreshFromRequest extracts the refresh token from the refreshToken
// cookie. A missing or empty cookie reports ErrTokenMissing so the
// caller can fall back to the request body.
func GetRefreshFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(RefreshCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrTokenMissing
}
