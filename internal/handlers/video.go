package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

// VideoPublisher defines the interface for publishing a new video.
type VideoPublisher interface {
	Publish(ctx context.Context, ownerID uuid.UUID, in services.PublishVideoInput) (*models.VideoDB, error)
}

// NewPublishVideoHandler returns an HTTP handler that uploads a video
// file with its thumbnail and creates the record.
// @Summary Publish a video
// @Description Uploads the video file and thumbnail and creates the video record
// @Tags video
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 201 {object} handlers.Response "Video published"
// @Failure 400 {object} handlers.ErrorResponse "Missing title or files"
// @Router /videos [post]
func NewPublishVideoHandler(svc VideoPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, apperrors.Validation("Multipart form is required"))
			return
		}

		videoFile, closeVideo, err := fileFromForm(r, "videoFile")
		if err != nil {
			writeError(w, apperrors.Validation("Video file is invalid"))
			return
		}
		defer closeVideo()

		thumbnail, closeThumb, err := fileFromForm(r, "thumbnail")
		if err != nil {
			writeError(w, apperrors.Validation("Thumbnail file is invalid"))
			return
		}
		defer closeThumb()

		duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

		ownerID := middlewares.UserIDFromContext(r.Context())
		video, err := svc.Publish(r.Context(), ownerID, services.PublishVideoInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Duration:    duration,
			VideoFile:   videoFile,
			Thumbnail:   thumbnail,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeData(w, http.StatusCreated, video, "Video published successfully")
	}
}

// VideoGetter loads one video and records the view.
type VideoGetter interface {
	Get(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*models.VideoWithOwner, error)
}

// NewGetVideoHandler returns an HTTP handler for a single video. The
// authenticated viewer's watch history is updated as a side effect.
// @Summary Get a video by id
// @Tags video
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Video"
// @Failure 404 {object} handlers.ErrorResponse "Video not found"
// @Router /videos/{videoId} [get]
func NewGetVideoHandler(svc VideoGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		var viewerID *uuid.UUID
		if id := middlewares.UserIDFromContext(r.Context()); id != uuid.Nil {
			viewerID = &id
		}

		video, err := svc.Get(r.Context(), videoID, viewerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, video, "Video fetched successfully")
	}
}

// VideoLister serves the paginated listing.
type VideoLister interface {
	List(ctx context.Context, filter models.VideoListFilter) (*models.VideoPage, error)
}

// NewListVideosHandler returns an HTTP handler for the video listing
// with search, owner filter, sorting and pagination.
// @Summary List published videos
// @Tags video
// @Produce json
// @Security BearerAuth
// @Param query query string false "Title/description search"
// @Param userId query string false "Filter by owner"
// @Param sortBy query string false "createdAt, views, duration or title"
// @Param sortType query string false "asc or desc"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} handlers.Response "Video page"
// @Router /videos [get]
func NewListVideosHandler(svc VideoLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := models.VideoListFilter{
			Query:    strings.TrimSpace(q.Get("query")),
			SortBy:   q.Get("sortBy"),
			SortDesc: !strings.EqualFold(q.Get("sortType"), "asc"),
			Page:     queryInt(q.Get("page"), 1),
			Limit:    queryInt(q.Get("limit"), 10),
		}
		if raw := q.Get("userId"); raw != "" {
			ownerID, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, apperrors.Validation("Invalid userId"))
				return
			}
			filter.OwnerID = &ownerID
		}

		page, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, page, "Videos fetched successfully")
	}
}

// VideoEditor mutates an owned video.
type VideoEditor interface {
	Update(ctx context.Context, videoID, requesterID uuid.UUID, in services.UpdateVideoInput) (*models.VideoDB, error)
	Delete(ctx context.Context, videoID, requesterID uuid.UUID) error
	TogglePublish(ctx context.Context, videoID, requesterID uuid.UUID) (*models.VideoDB, error)
}

// NewUpdateVideoHandler returns an HTTP handler that patches title,
// description and optionally the thumbnail of an owned video.
// @Summary Update a video
// @Tags video
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Updated video"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /videos/{videoId} [patch]
func NewUpdateVideoHandler(svc VideoEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, apperrors.Validation("Multipart form is required"))
			return
		}

		thumbnail, closeThumb, err := fileFromForm(r, "thumbnail")
		if err != nil {
			writeError(w, apperrors.Validation("Thumbnail file is invalid"))
			return
		}
		defer closeThumb()

		requesterID := middlewares.UserIDFromContext(r.Context())
		video, err := svc.Update(r.Context(), videoID, requesterID, services.UpdateVideoInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Thumbnail:   thumbnail,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, video, "Video updated successfully")
	}
}

// NewDeleteVideoHandler returns an HTTP handler that soft-deletes an
// owned video.
// @Summary Delete a video
// @Tags video
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Video deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /videos/{videoId} [delete]
func NewDeleteVideoHandler(svc VideoEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		if err := svc.Delete(r.Context(), videoID, requesterID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Video deleted successfully")
	}
}

// NewTogglePublishHandler returns an HTTP handler that flips the
// published flag of an owned video.
// @Summary Toggle the publish status
// @Tags video
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Updated video"
// @Router /videos/{videoId}/toggle-publish [patch]
func NewTogglePublishHandler(svc VideoEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		video, err := svc.TogglePublish(r.Context(), videoID, requesterID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, video, "Publish status toggled successfully")
	}
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid " + name)
	}
	return id, nil
}

// queryInt parses a positive integer query value, falling back to def.
func queryInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
