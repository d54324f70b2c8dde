package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// Playlister defines the interface that the playlist service must
// implement.
type Playlister interface {
	Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.PlaylistDB, error)
	Get(ctx context.Context, playlistID uuid.UUID) (*models.PlaylistWithVideos, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PlaylistDB, error)
	Update(ctx context.Context, playlistID, requesterID uuid.UUID, name, description string) (*models.PlaylistDB, error)
	Delete(ctx context.Context, playlistID, requesterID uuid.UUID) error
	AddVideo(ctx context.Context, playlistID, videoID, requesterID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID, videoID, requesterID uuid.UUID) error
}

// PlaylistRequest represents the JSON body for creating or editing a playlist
// swagger:model PlaylistRequest
type PlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewCreatePlaylistHandler returns an HTTP handler that creates a
// playlist owned by the requester.
// @Summary Create a playlist
// @Tags playlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlistRequest body handlers.PlaylistRequest true "Playlist name and description"
// @Success 201 {object} handlers.Response "Created playlist"
// @Router /playlists [post]
func NewCreatePlaylistHandler(svc Playlister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlaylistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		ownerID := middlewares.UserIDFromContext(r.Context())
		playlist, err := svc.Create(r.Context(), ownerID, req.Name, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, playlist, "Playlist created successfully")
	}
}

// NewGetPlaylistHandler returns an HTTP handler for one playlist with
// its videos in position order.
// @Summary Get a playlist by id
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "Playlist ID"
// @Success 200 {object} handlers.Response "Playlist with videos"
// @Failure 404 {object} handlers.ErrorResponse "Playlist not found"
// @Router /playlists/{playlistId} [get]
func NewGetPlaylistHandler(svc Playlister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := pathUUID(r, "playlistId")
		if err != nil {
			writeError(w, err)
			return
		}

		playlist, err := svc.Get(r.Context(), playlistID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, playlist, "Playlist fetched successfully")
	}
}

// NewListUserPlaylistsHandler returns an HTTP handler listing a user's
// playlists.
// @Summary List a user's playlists
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} handlers.Response "Playlists"
// @Router /playlists/user/{userId} [get]
func NewListUserPlaylistsHandler(svc Playlister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			writeError(w, err)
			return
		}

		playlists, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, playlists, "Playlists fetched successfully")
	}
}

// NewUpdatePlaylistHandler returns an HTTP handler that renames an
// owned playlist.
// @Summary Update a playlist
// @Tags playlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "Playlist ID"
// @Param playlistRequest body handlers.PlaylistRequest true "New name and description"
// @Success 200 {object} handlers.Response "Updated playlist"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /playlists/{playlistId} [patch]
func NewUpdatePlaylistHandler(svc Playlister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := pathUUID(r, "playlistId")
		if err != nil {
			writeError(w, err)
			return
		}

		var req PlaylistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		playlist, err := svc.Update(r.Context(), playlistID, requesterID, req.Name, req.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, playlist, "Playlist updated successfully")
	}
}

// NewDeletePlaylistHandler returns an HTTP handler that deletes an
// owned playlist.
// @Summary Delete a playlist
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "Playlist ID"
// @Success 200 {object} handlers.Response "Playlist deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /playlists/{playlistId} [delete]
func NewDeletePlaylistHandler(svc Playlister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := pathUUID(r, "playlistId")
		if err != nil {
			writeError(w, err)
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		if err := svc.Delete(r.Context(), playlistID, requesterID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Playlist deleted successfully")
	}
}

// NewAddPlaylistVideoHandler returns an HTTP handler that appends a
// video to an owned playlist.
// @Summary Add a video to a playlist
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "Playlist ID"
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Video added"
// @Failure 404 {object} handlers.ErrorResponse "Playlist or video not found"
// @Router /playlists/{playlistId}/videos/{videoId} [post]
func NewAddPlaylistVideoHandler(svc Playlister) http.HandlerFunc {
	return newPlaylistVideoHandler(svc.AddVideo, "Video added to playlist successfully")
}

// NewRemovePlaylistVideoHandler returns an HTTP handler that removes a
// video from an owned playlist.
// @Summary Remove a video from a playlist
// @Tags playlist
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "Playlist ID"
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Video removed"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /playlists/{playlistId}/videos/{videoId} [delete]
func NewRemovePlaylistVideoHandler(svc Playlister) http.HandlerFunc {
	return newPlaylistVideoHandler(svc.RemoveVideo, "Video removed from playlist successfully")
}

func newPlaylistVideoHandler(op func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID, err := pathUUID(r, "playlistId")
		if err != nil {
			writeError(w, err)
			return
		}
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		if err := op(r.Context(), playlistID, videoID, requesterID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil, message)
	}
}
