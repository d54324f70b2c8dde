package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

type TweetReadRepository struct {
	db *sqlx.DB
}

func NewTweetReadRepository(db *sqlx.DB) *TweetReadRepository {
	return &TweetReadRepository{db: db}
}

// GetByID returns a tweet, or nil when absent.
func (r *TweetReadRepository) GetByID(ctx context.Context, tweetID uuid.UUID) (*models.TweetDB, error) {
	query := `
		SELECT tweet_id, owner_id, content, created_at, updated_at
		FROM tweets WHERE tweet_id = $1`

	var tweet models.TweetDB
	err := r.db.GetContext(ctx, &tweet, query, tweetID)

	logger.Log.Infow("tweet read",
		"query", strings.Join(strings.Fields(query), " "),
		"tweet_id", tweetID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

// ListByOwner returns all tweets by a user, newest first.
func (r *TweetReadRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.TweetDB, error) {
	query := `
		SELECT tweet_id, owner_id, content, created_at, updated_at
		FROM tweets WHERE owner_id = $1
		ORDER BY created_at DESC`

	tweets := []models.TweetDB{}
	err := r.db.SelectContext(ctx, &tweets, query, ownerID)

	logger.Log.Infow("tweet list",
		"query", strings.Join(strings.Fields(query), " "),
		"owner_id", ownerID,
		"count", len(tweets),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return tweets, nil
}

type TweetWriteRepository struct {
	db *sqlx.DB
}

func NewTweetWriteRepository(db *sqlx.DB) *TweetWriteRepository {
	return &TweetWriteRepository{db: db}
}

// Save inserts a new tweet and returns the stored row.
func (r *TweetWriteRepository) Save(ctx context.Context, tweet models.TweetDB) (*models.TweetDB, error) {
	query := `
		INSERT INTO tweets (tweet_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING tweet_id, owner_id, content, created_at, updated_at`

	var saved models.TweetDB
	err := r.db.GetContext(ctx, &saved, query, tweet.TweetID, tweet.OwnerID, tweet.Content)

	logger.Log.Infow("tweet insert",
		"query", strings.Join(strings.Fields(query), " "),
		"tweet_id", tweet.TweetID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update replaces the tweet content and returns the updated row, or nil
// when the tweet is absent.
func (r *TweetWriteRepository) Update(ctx context.Context, tweetID uuid.UUID, content string) (*models.TweetDB, error) {
	query := `
		UPDATE tweets SET content = $2, updated_at = NOW()
		WHERE tweet_id = $1
		RETURNING tweet_id, owner_id, content, created_at, updated_at`

	var updated models.TweetDB
	err := r.db.GetContext(ctx, &updated, query, tweetID, content)

	logger.Log.Infow("tweet update",
		"query", strings.Join(strings.Fields(query), " "),
		"tweet_id", tweetID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the tweet and, via FK cascade, its likes.
func (r *TweetWriteRepository) Delete(ctx context.Context, tweetID uuid.UUID) error {
	query := `DELETE FROM tweets WHERE tweet_id = $1`
	_, err := r.db.ExecContext(ctx, query, tweetID)

	logger.Log.Infow("tweet delete",
		"query", strings.Join(strings.Fields(query), " "),
		"tweet_id", tweetID,
		"error", err,
	)
	return err
}
