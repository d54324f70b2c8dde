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

type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Get returns the subscription row for (subscriber, channel), or nil
// when absent.
func (r *SubscriptionRepository) Get(ctx context.Context, subscriberID, channelID uuid.UUID) (*models.SubscriptionDB, error) {
	query := `
		SELECT subscription_id, subscriber_id, channel_id, created_at
		FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

	var sub models.SubscriptionDB
	err := r.db.GetContext(ctx, &sub, query, subscriberID, channelID)

	logger.Log.Infow("subscription read",
		"query", strings.Join(strings.Fields(query), " "),
		"subscriber_id", subscriberID,
		"channel_id", channelID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create inserts a subscription row. A racing duplicate insert surfaces
// as ErrDuplicateRelation via the unique constraint.
func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, channelID uuid.UUID) (*models.SubscriptionDB, error) {
	query := `
		INSERT INTO subscriptions (subscription_id, subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING subscription_id, subscriber_id, channel_id, created_at`

	var sub models.SubscriptionDB
	err := r.db.GetContext(ctx, &sub, query, uuid.New(), subscriberID, channelID)

	logger.Log.Infow("subscription insert",
		"query", strings.Join(strings.Fields(query), " "),
		"subscriber_id", subscriberID,
		"channel_id", channelID,
		"error", err,
	)

	if IsUniqueViolation(err) {
		return nil, ErrDuplicateRelation
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Delete removes a subscription row by id.
func (r *SubscriptionRepository) Delete(ctx context.Context, subscriptionID uuid.UUID) error {
	query := `DELETE FROM subscriptions WHERE subscription_id = $1`
	_, err := r.db.ExecContext(ctx, query, subscriptionID)

	logger.Log.Infow("subscription delete",
		"query", strings.Join(strings.Fields(query), " "),
		"subscription_id", subscriptionID,
		"error", err,
	)
	return err
}

// CountForChannel returns the number of subscribers of a channel.
func (r *SubscriptionRepository) CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`, channelID)
}

// CountForSubscriber returns the number of channels a user subscribes to.
func (r *SubscriptionRepository) CountForSubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`, subscriberID)
}

func (r *SubscriptionRepository) count(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, query, id)

	logger.Log.Infow("subscription count",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"count", n,
		"error", err,
	)

	if err != nil {
		return 0, err
	}
	return n, nil
}

// ListSubscribers returns the profiles of a channel's subscribers.
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.UserProfile, error) {
	query := `
		SELECT u.user_id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.user_id = s.subscriber_id
		WHERE s.channel_id = $1
		ORDER BY s.created_at DESC`
	return r.listProfiles(ctx, query, channelID)
}

// ListChannels returns the profiles of the channels a user subscribes to.
func (r *SubscriptionRepository) ListChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.UserProfile, error) {
	query := `
		SELECT u.user_id, u.username, u.full_name, u.avatar_url
		FROM subscriptions s
		JOIN users u ON u.user_id = s.channel_id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at DESC`
	return r.listProfiles(ctx, query, subscriberID)
}

func (r *SubscriptionRepository) listProfiles(ctx context.Context, query string, id uuid.UUID) ([]models.UserProfile, error) {
	profiles := []models.UserProfile{}
	err := r.db.SelectContext(ctx, &profiles, query, id)

	logger.Log.Infow("subscription profiles list",
		"query", strings.Join(strings.Fields(query), " "),
		"id", id,
		"count", len(profiles),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return profiles, nil
}
