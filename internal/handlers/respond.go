package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/services"
)

// Response is the success envelope every handler writes.
// swagger:model Response
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope written for every error kind.
// swagger:model ErrorResponse
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// writeData writes the standard success envelope.
func writeData(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// writeError normalizes any error into the failure envelope. Handlers
// signal a kind and never format error JSON themselves; internal detail
// is logged here and never leaks to the client.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	if appErr.Kind == apperrors.KindInternal {
		logger.Log.Errorw("internal server error", "err", err)
	}

	status := appErr.Status()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		StatusCode: status,
		Message:    appErr.Message,
		Success:    false,
		Errors:     []string{},
	})
}

// setAuthCookies installs the token pair as HTTP-only cookies. Secure
// is only set outside local development so the cookies still work over
// plain HTTP there.
func setAuthCookies(w http.ResponseWriter, pair *services.TokenPair, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.AccessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.RefreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies expires both auth cookies.
func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{jwt.AccessCookieName, jwt.RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
}
