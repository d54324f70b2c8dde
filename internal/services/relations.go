package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/repositories"
)

var ErrChannelNotFound = apperrors.NotFound("Channel not found")

// LikeRepo defines storage operations for like rows.
type LikeRepo interface {
	Get(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*models.LikeDB, error)
	Create(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*models.LikeDB, error)
	Delete(ctx context.Context, likeID uuid.UUID) error
	ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error)
}

// SubscriptionRepo defines storage operations for subscription rows.
type SubscriptionRepo interface {
	Get(ctx context.Context, subscriberID, channelID uuid.UUID) (*models.SubscriptionDB, error)
	Create(ctx context.Context, subscriberID, channelID uuid.UUID) (*models.SubscriptionDB, error)
	Delete(ctx context.Context, subscriptionID uuid.UUID) error
}

// StatsInvalidator drops cached channel stats after a toggle.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ToggleResult reports the outcome of a relation toggle. Record carries
// the created relation on "added" and is nil on "removed".
type ToggleResult struct {
	State  models.ToggleState `json:"state"`
	Record any                `json:"record"`
}

// RelationService implements the toggle pattern shared by likes and
// subscriptions: the relation either exists (delete it) or it doesn't
// (create it). Race safety comes from the storage-level uniqueness
// constraint, not from locking; a create that loses the race resolves
// idempotently as "added".
type RelationService struct {
	likes       LikeRepo
	subs        SubscriptionRepo
	users       UserReader
	cache       StatsInvalidator
	kafkaWriter KafkaWriter
}

func NewRelationService(likes LikeRepo, subs SubscriptionRepo, users UserReader, cache StatsInvalidator, kafkaWriter KafkaWriter) *RelationService {
	return &RelationService{
		likes:       likes,
		subs:        subs,
		users:       users,
		cache:       cache,
		kafkaWriter: kafkaWriter,
	}
}

// ToggleLike flips the like state for (user, target).
func (s *RelationService) ToggleLike(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*ToggleResult, error) {
	existing, err := s.likes.Get(ctx, userID, target)
	if err != nil {
		logger.Log.Errorw("failed to look up like", "user_id", userID, "target", target.ID, "err", err)
		return nil, apperrors.Internal(err)
	}

	if existing != nil {
		if err := s.likes.Delete(ctx, existing.LikeID); err != nil {
			logger.Log.Errorw("failed to delete like", "like_id", existing.LikeID, "err", err)
			return nil, apperrors.Internal(err)
		}
		s.publish(ctx, userID, "like_removed", target.ID)
		return &ToggleResult{State: models.ToggleRemoved, Record: nil}, nil
	}

	created, err := s.likes.Create(ctx, userID, target)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateRelation) {
			// Lost the race against a concurrent toggle: the relation
			// exists, so the requested end state is already reached.
			return &ToggleResult{State: models.ToggleAdded, Record: nil}, nil
		}
		logger.Log.Errorw("failed to create like", "user_id", userID, "target", target.ID, "err", err)
		return nil, apperrors.Internal(err)
	}

	s.publish(ctx, userID, "like_added", target.ID)
	return &ToggleResult{State: models.ToggleAdded, Record: created}, nil
}

// ToggleSubscription flips the subscription state for
// (subscriber, channel). Subscribing to oneself or to an unknown
// channel is rejected.
func (s *RelationService) ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (*ToggleResult, error) {
	if subscriberID == channelID {
		return nil, apperrors.Validation("Cannot subscribe to your own channel")
	}

	channel, err := s.users.GetByID(ctx, channelID)
	if err != nil {
		logger.Log.Errorw("failed to look up channel", "channel_id", channelID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}

	existing, err := s.subs.Get(ctx, subscriberID, channelID)
	if err != nil {
		logger.Log.Errorw("failed to look up subscription", "subscriber_id", subscriberID, "channel_id", channelID, "err", err)
		return nil, apperrors.Internal(err)
	}

	var result *ToggleResult
	if existing != nil {
		if err := s.subs.Delete(ctx, existing.SubscriptionID); err != nil {
			logger.Log.Errorw("failed to delete subscription", "subscription_id", existing.SubscriptionID, "err", err)
			return nil, apperrors.Internal(err)
		}
		s.publish(ctx, subscriberID, "unsubscribed", channelID)
		result = &ToggleResult{State: models.ToggleRemoved, Record: nil}
	} else {
		created, err := s.subs.Create(ctx, subscriberID, channelID)
		if err != nil {
			if errors.Is(err, repositories.ErrDuplicateRelation) {
				result = &ToggleResult{State: models.ToggleAdded, Record: nil}
			} else {
				logger.Log.Errorw("failed to create subscription", "subscriber_id", subscriberID, "channel_id", channelID, "err", err)
				return nil, apperrors.Internal(err)
			}
		} else {
			s.publish(ctx, subscriberID, "subscribed", channelID)
			result = &ToggleResult{State: models.ToggleAdded, Record: created}
		}
	}

	// Counts changed for both sides, drop the cached stats.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, subscriberID, channelID); err != nil {
			logger.Log.Errorw("failed to invalidate channel stats cache", "err", err)
		}
	}

	return result, nil
}

// LikedVideos returns the videos the user has liked.
func (s *RelationService) LikedVideos(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error) {
	videos, err := s.likes.ListLikedVideos(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list liked videos", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return videos, nil
}

// publish sends an engagement event to Kafka, best-effort.
func (s *RelationService) publish(ctx context.Context, userID uuid.UUID, action string, targetID uuid.UUID) {
	if s.kafkaWriter == nil {
		return
	}

	event := models.EngagementEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		UserID:    userID.String(),
		Action:    action,
		TargetID:  targetID.String(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal engagement event", "action", action, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish engagement event", "action", action, "error", err)
	}
}
