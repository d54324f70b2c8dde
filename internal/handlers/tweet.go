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

// Tweeter defines the interface that the tweet service must implement.
type Tweeter interface {
	Create(ctx context.Context, ownerID uuid.UUID, content string) (*models.TweetDB, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TweetDB, error)
	Update(ctx context.Context, tweetID, requesterID uuid.UUID, content string) (*models.TweetDB, error)
	Delete(ctx context.Context, tweetID, requesterID uuid.UUID) error
}

// TweetRequest represents the JSON body for creating or editing a tweet
// swagger:model TweetRequest
type TweetRequest struct {
	Content string `json:"content"`
}

// NewCreateTweetHandler returns an HTTP handler that posts a tweet as
// the requester.
// @Summary Create a tweet
// @Tags tweet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tweetRequest body handlers.TweetRequest true "Tweet content"
// @Success 201 {object} handlers.Response "Created tweet"
// @Router /tweets [post]
func NewCreateTweetHandler(svc Tweeter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		ownerID := middlewares.UserIDFromContext(r.Context())
		tweet, err := svc.Create(r.Context(), ownerID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusCreated, tweet, "Tweet created successfully")
	}
}

// NewListUserTweetsHandler returns an HTTP handler listing a user's
// tweets, newest first.
// @Summary List a user's tweets
// @Tags tweet
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} handlers.Response "Tweets"
// @Router /tweets/user/{userId} [get]
func NewListUserTweetsHandler(svc Tweeter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			writeError(w, err)
			return
		}

		tweets, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, tweets, "Tweets fetched successfully")
	}
}

// NewUpdateTweetHandler returns an HTTP handler that edits an owned
// tweet.
// @Summary Update a tweet
// @Tags tweet
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "Tweet ID"
// @Param tweetRequest body handlers.TweetRequest true "New content"
// @Success 200 {object} handlers.Response "Updated tweet"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /tweets/{tweetId} [patch]
func NewUpdateTweetHandler(svc Tweeter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tweetID, err := pathUUID(r, "tweetId")
		if err != nil {
			writeError(w, err)
			return
		}

		var req TweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		tweet, err := svc.Update(r.Context(), tweetID, requesterID, req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, tweet, "Tweet updated successfully")
	}
}

// NewDeleteTweetHandler returns an HTTP handler that deletes an owned
// tweet.
// @Summary Delete a tweet
// @Tags tweet
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "Tweet ID"
// @Success 200 {object} handlers.Response "Tweet deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the owner"
// @Router /tweets/{tweetId} [delete]
func NewDeleteTweetHandler(svc Tweeter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tweetID, err := pathUUID(r, "tweetId")
		if err != nil {
			writeError(w, err)
			return
		}

		requesterID := middlewares.UserIDFromContext(r.Context())
		if err := svc.Delete(r.Context(), tweetID, requesterID); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil, "Tweet deleted successfully")
	}
}
