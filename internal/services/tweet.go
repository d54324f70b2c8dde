package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

var (
	ErrTweetNotFound = apperrors.NotFound("Tweet not found")
	ErrNotTweetOwner = apperrors.Forbidden("You do not own this tweet")
)

// TweetReader defines read operations for tweets.
type TweetReader interface {
	GetByID(ctx context.Context, tweetID uuid.UUID) (*models.TweetDB, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.TweetDB, error)
}

// TweetWriter defines write operations for tweets.
type TweetWriter interface {
	Save(ctx context.Context, tweet models.TweetDB) (*models.TweetDB, error)
	Update(ctx context.Context, tweetID uuid.UUID, content string) (*models.TweetDB, error)
	Delete(ctx context.Context, tweetID uuid.UUID) error
}

// TweetService handles short text posts on a channel.
type TweetService struct {
	reader TweetReader
	writer TweetWriter
}

func NewTweetService(reader TweetReader, writer TweetWriter) *TweetService {
	return &TweetService{reader: reader, writer: writer}
}

// Create posts a new tweet.
func (svc *TweetService) Create(ctx context.Context, ownerID uuid.UUID, content string) (*models.TweetDB, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Content is required")
	}

	saved, err := svc.writer.Save(ctx, models.TweetDB{
		TweetID: uuid.New(),
		OwnerID: ownerID,
		Content: content,
	})
	if err != nil {
		logger.Log.Errorw("failed to save tweet", "owner_id", ownerID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return saved, nil
}

// ListByUser returns all tweets of a user, newest first.
func (svc *TweetService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.TweetDB, error) {
	tweets, err := svc.reader.ListByOwner(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list tweets", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return tweets, nil
}

// Update replaces the tweet content. Only the owner may update.
func (svc *TweetService) Update(ctx context.Context, tweetID, requesterID uuid.UUID, content string) (*models.TweetDB, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Content is required")
	}

	if err := svc.checkOwner(ctx, tweetID, requesterID); err != nil {
		return nil, err
	}

	updated, err := svc.writer.Update(ctx, tweetID, content)
	if err != nil {
		logger.Log.Errorw("failed to update tweet", "tweet_id", tweetID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, ErrTweetNotFound
	}
	return updated, nil
}

// Delete removes the tweet. Only the owner may delete. Hard delete.
func (svc *TweetService) Delete(ctx context.Context, tweetID, requesterID uuid.UUID) error {
	if err := svc.checkOwner(ctx, tweetID, requesterID); err != nil {
		return err
	}

	if err := svc.writer.Delete(ctx, tweetID); err != nil {
		logger.Log.Errorw("failed to delete tweet", "tweet_id", tweetID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

func (svc *TweetService) checkOwner(ctx context.Context, tweetID, requesterID uuid.UUID) error {
	tweet, err := svc.reader.GetByID(ctx, tweetID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if tweet == nil {
		return ErrTweetNotFound
	}
	if tweet.OwnerID != requesterID {
		return ErrNotTweetOwner
	}
	return nil
}
