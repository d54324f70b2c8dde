package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

// LikeToggler defines the interface for the like relation toggle.
type LikeToggler interface {
	ToggleLike(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*services.ToggleResult, error)
	LikedVideos(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error)
}

// NewToggleVideoLikeHandler returns an HTTP handler that toggles the
// requester's like on a video.
// @Summary Toggle a video like
// @Tags like
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Success 200 {object} handlers.Response "Toggle state"
// @Router /likes/toggle/v/{videoId} [patch]
func NewToggleVideoLikeHandler(svc LikeToggler) http.HandlerFunc {
	return newToggleLikeHandler(svc, models.LikeTargetVideo, "videoId")
}

// NewToggleCommentLikeHandler returns an HTTP handler that toggles the
// requester's like on a comment.
// @Summary Toggle a comment like
// @Tags like
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} handlers.Response "Toggle state"
// @Router /likes/toggle/c/{commentId} [patch]
func NewToggleCommentLikeHandler(svc LikeToggler) http.HandlerFunc {
	return newToggleLikeHandler(svc, models.LikeTargetComment, "commentId")
}

// NewToggleTweetLikeHandler returns an HTTP handler that toggles the
// requester's like on a tweet.
// @Summary Toggle a tweet like
// @Tags like
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "Tweet ID"
// @Success 200 {object} handlers.Response "Toggle state"
// @Router /likes/toggle/t/{tweetId} [patch]
func NewToggleTweetLikeHandler(svc LikeToggler) http.HandlerFunc {
	return newToggleLikeHandler(svc, models.LikeTargetTweet, "tweetId")
}

func newToggleLikeHandler(svc LikeToggler, kind models.LikeTargetKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := pathUUID(r, param)
		if err != nil {
			writeError(w, err)
			return
		}

		userID := middlewares.UserIDFromContext(r.Context())
		result, err := svc.ToggleLike(r.Context(), userID, models.LikeTarget{Kind: kind, ID: targetID})
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, result, "Like toggled successfully")
	}
}

// NewLikedVideosHandler returns an HTTP handler listing videos the
// requester has liked, most recently liked first.
// @Summary List liked videos
// @Tags like
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Liked videos"
// @Router /likes/videos [get]
func NewLikedVideosHandler(svc LikeToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.UserIDFromContext(r.Context())
		videos, err := svc.LikedVideos(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, videos, "Liked videos fetched successfully")
	}
}
