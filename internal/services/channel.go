package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/repositories"
)

// SubscriptionCounter defines the count and listing reads used by the
// aggregation views.
type SubscriptionCounter interface {
	Get(ctx context.Context, subscriberID, channelID uuid.UUID) (*models.SubscriptionDB, error)
	CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountForSubscriber(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.UserProfile, error)
	ListChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.UserProfile, error)
}

// StatsCache caches channel subscription counts.
type StatsCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*repositories.ChannelStats, error)
	Set(ctx context.Context, userID uuid.UUID, stats repositories.ChannelStats) error
}

// HistoryReader resolves a user's watch history.
type HistoryReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error)
}

// ChannelService serves the read-only aggregation views: channel
// profile, watch history, subscriber listings.
type ChannelService struct {
	users   UserReader
	subs    SubscriptionCounter
	cache   StatsCache
	history HistoryReader
}

func NewChannelService(users UserReader, subs SubscriptionCounter, cache StatsCache, history HistoryReader) *ChannelService {
	return &ChannelService{users: users, subs: subs, cache: cache, history: history}
}

// Profile resolves a channel by username and decorates it with
// subscription counts and the requester's subscription state. Counts
// come from the cache when warm, from SQL otherwise.
func (svc *ChannelService) Profile(ctx context.Context, username string, requesterID uuid.UUID) (*models.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperrors.Validation("Username is required")
	}

	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, ErrChannelNotFound
	}

	stats, err := svc.stats(ctx, user.UserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	isSubscribed := false
	if requesterID != uuid.Nil && requesterID != user.UserID {
		sub, err := svc.subs.Get(ctx, requesterID, user.UserID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		isSubscribed = sub != nil
	}

	return &models.ChannelProfile{
		UserProfile:       user.Profile(),
		CoverImageURL:     user.CoverImageURL,
		SubscribersCount:  stats.Subscribers,
		SubscribedToCount: stats.SubscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// WatchHistory returns the requester's watch history, most recent
// first, in stored order.
func (svc *ChannelService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error) {
	videos, err := svc.history.ListByUser(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list watch history", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return videos, nil
}

// Subscribers lists the subscribers of a channel.
func (svc *ChannelService) Subscribers(ctx context.Context, channelID uuid.UUID) ([]models.UserProfile, error) {
	if err := svc.requireUser(ctx, channelID); err != nil {
		return nil, err
	}

	profiles, err := svc.subs.ListSubscribers(ctx, channelID)
	if err != nil {
		logger.Log.Errorw("failed to list subscribers", "channel_id", channelID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return profiles, nil
}

// SubscribedChannels lists the channels a user subscribes to.
func (svc *ChannelService) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.UserProfile, error) {
	if err := svc.requireUser(ctx, subscriberID); err != nil {
		return nil, err
	}

	profiles, err := svc.subs.ListChannels(ctx, subscriberID)
	if err != nil {
		logger.Log.Errorw("failed to list subscribed channels", "subscriber_id", subscriberID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return profiles, nil
}

// stats reads the subscription counts through the cache. A cold or
// failing cache falls back to SQL and rewarms.
func (svc *ChannelService) stats(ctx context.Context, userID uuid.UUID) (*repositories.ChannelStats, error) {
	if svc.cache != nil {
		if stats, err := svc.cache.Get(ctx, userID); err == nil {
			return stats, nil
		}
	}

	subscribers, err := svc.subs.CountForChannel(ctx, userID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := svc.subs.CountForSubscriber(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := repositories.ChannelStats{Subscribers: subscribers, SubscribedTo: subscribedTo}
	if svc.cache != nil {
		if err := svc.cache.Set(ctx, userID, stats); err != nil {
			logger.Log.Errorw("failed to cache channel stats", "user_id", userID, "err", err)
		}
	}
	return &stats, nil
}

func (svc *ChannelService) requireUser(ctx context.Context, userID uuid.UUID) error {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	return nil
}
