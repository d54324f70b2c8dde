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

// Commenter defines the interface that the comment service must
// implement.
type Commenter interface {
	ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) (*models.CommentPage, error)
	Add(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*models.CommentDB, error)
	Update(ctx context.Context, commentID, requesterID uuid.UUID, content string) (*models.CommentDB, error)
	Delete(ctx context.Context, commentID, requesterID uuid.UUID) error
}

// CommentRequest represents the JSON body for adding or editing a comment
// swagger:model CommentRequest
type CommentRequest struct {
	Content string `json:"content"`
}

// NewListCommentsHandler returns an HTTP handler for a video's comment
// page, newest first.
// @Summary List comments for a video
// @Tags comment
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} handlers.Response "Comment page"
// @Router /comments/{videoId} [get]
func NewListCommentsHandler(svc Commenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		q := r.URL.Query()
		page, err := svc.ListByVideo(r.Context(), videoID, queryInt(q.Get("page"), 1), queryInt(q.Get("limit"), 10))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, page, "Comments fetched successfully")
	}
}

// NewAddCommentHandler returns an HTTP handler that adds a comment to
// a video.
// @Summary Add a comment
// @Tags comment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "Video ID"
// @Param commentRequest body handlers.CommentRequest true "Comment content"
// @Success 201 {object} handlers.Response "Created comment"
// @Failure 404 {object} handlers.ErrorResponse "Video not found"
// @Router /comments/{videoId} [post]
func NewAddCommentHandler(svc Commenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, err := pathUUID(r, "videoId")
		if err != nil {
			writeError(w, err)
			return
		}

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		ownerID := middlewares.UserIDFromContext(r.Context())
		comment, err := svc.Add(r.Context(), videoID, ownerID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, comment, "Comment added successfully")
	}
}

// NewUpdateCommentHandler returns an HTTP handler that edits an owned
// comment.
// @Summary Update a comment
// @Tags comment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Param commentRequest body handlers.CommentRequest true "New content"
// @Success 200 {object} handlers.Response "Updated comment"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /comments/c/{commentId} [patch]
func NewUpdateCommentHandler(svc Commenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := pathUUID(r, "commentId")
		if err != nil {
			writeError(w, err)
			return
		}

		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		comment, err := svc.Update(r.Context(), commentID, requesterID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, comment, "Comment updated successfully")
	}
}

// NewDeleteCommentHandler returns an HTTP handler that deletes an owned
// comment.
// @Summary Delete a comment
// @Tags comment
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "Comment ID"
// @Success 200 {object} handlers.Response "Comment deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /comments/c/{commentId} [delete]
func NewDeleteCommentHandler(svc Commenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := pathUUID(r, "commentId")
		if err != nil {
			writeError(w, err)
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		if err := svc.Delete(r.Context(), commentID, requesterID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Comment deleted successfully")
	}
}
