package handlers

import (
	"context"
	"net/http"

	"github.com/vidtube/vidtube-api/internal/apperrors"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewHealthHandler returns an HTTP handler that pings the database.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.Response "Service healthy"
// @Failure 500 {object} handlers.ErrorResponse "Database unreachable"
// @Router /healthz [get]
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeError(w, apperrors.Internal(err))
			return
		}
		writeData(w, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
	}
}
