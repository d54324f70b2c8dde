package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube-api/internal/logger"
)

// Tokener defines the minimal token interface needed by the auth gate.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	ParseAccess(ctx context.Context, tokenString string) (uuid.UUID, error)
}

// UserLoader confirms the token subject still exists.
type UserLoader interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type contextKey struct{}

var userIDKey = contextKey{}

// errorEnvelope mirrors the failure envelope the handlers write, so
// rejections at the gate look the same as rejections behind it.
type errorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}

// AuthMiddleware returns a middleware that verifies the access token
// (cookie taking precedence over the Authorization header), checks the
// subject still exists, and injects the user id into the context.
func AuthMiddleware(tokener Tokener, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeError(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			userID, err := tokener.ParseAccess(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			ok, err := users.Exists(ctx, userID)
			if err != nil {
				logger.Log.Errorw("failed to load token subject", "user_id", userID, "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !ok {
				writeError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserID(ctx, userID)))
		})
	}
}

// SetUserID stores the authenticated user id in the context.
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, or uuid.Nil when
// the request went through no auth gate.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}
