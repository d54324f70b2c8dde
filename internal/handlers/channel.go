package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// ChannelViewer defines the interface for the channel aggregation
// views.
type ChannelViewer interface {
	Profile(ctx context.Context, username string, requesterID uuid.UUID) (*models.ChannelProfile, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error)
}

// NewChannelProfileHandler returns an HTTP handler for the public
// channel view with subscriber counts and the requester's subscription
// state.
// @Summary Get a channel profile by username
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param username path string true "Channel username"
// @Success 200 {object} handlers.Response "Channel profile"
// @Failure 404 {object} handlers.ErrorResponse "Channel not found"
// @Router /user/channel/{username} [get]
func NewChannelProfileHandler(svc ChannelViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		requesterID := middlewares.UserIDFromContext(r.Context())

		profile, err := svc.Profile(r.Context(), username, requesterID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, profile, "Channel profile fetched successfully")
	}
}

// NewWatchHistoryHandler returns an HTTP handler for the requester's
// watch history, most recently watched first.
// @Summary Get the watch history
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Watched videos"
// @Router /user/history [get]
func NewWatchHistoryHandler(svc ChannelViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.UserIDFromContext(r.Context())
		videos, err := svc.WatchHistory(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, videos, "Watch history fetched successfully")
	}
}
