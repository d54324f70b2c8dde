package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/repositories"
	"github.com/vidtube/vidtube-api/internal/services"
)

func TestRelationService_ToggleLike(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	target := models.LikeTarget{Kind: models.LikeTargetVideo, ID: uuid.New()}

	t.Run("adds when no like exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		likes := services.NewMockLikeRepo(ctrl)
		svc := services.NewRelationService(likes, nil, nil, nil, nil)

		created := &models.LikeDB{LikeID: uuid.New(), LikedBy: userID, VideoID: &target.ID}
		likes.EXPECT().Get(gomock.Any(), userID, target).Return(nil, nil)
		likes.EXPECT().Create(gomock.Any(), userID, target).Return(created, nil)

		result, err := svc.ToggleLike(ctx, userID, target)
		assert.NoError(t, err)
		assert.Equal(t, models.ToggleAdded, result.State)
		assert.Equal(t, created, result.Record)
	})

	t.Run("removes when a like exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		likes := services.NewMockLikeRepo(ctrl)
		svc := services.NewRelationService(likes, nil, nil, nil, nil)

		existing := &models.LikeDB{LikeID: uuid.New(), LikedBy: userID, VideoID: &target.ID}
		likes.EXPECT().Get(gomock.Any(), userID, target).Return(existing, nil)
		likes.EXPECT().Delete(gomock.Any(), existing.LikeID).Return(nil)

		result, err := svc.ToggleLike(ctx, userID, target)
		assert.NoError(t, err)
		assert.Equal(t, models.ToggleRemoved, result.State)
		assert.Nil(t, result.Record)
	})

	t.Run("lost race resolves as added", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		likes := services.NewMockLikeRepo(ctrl)
		svc := services.NewRelationService(likes, nil, nil, nil, nil)

		likes.EXPECT().Get(gomock.Any(), userID, target).Return(nil, nil)
		likes.EXPECT().Create(gomock.Any(), userID, target).Return(nil, repositories.ErrDuplicateRelation)

		result, err := svc.ToggleLike(ctx, userID, target)
		assert.NoError(t, err)
		assert.Equal(t, models.ToggleAdded, result.State)
	})

	t.Run("storage error surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		likes := services.NewMockLikeRepo(ctrl)
		svc := services.NewRelationService(likes, nil, nil, nil, nil)

		likes.EXPECT().Get(gomock.Any(), userID, target).Return(nil, errors.New("db down"))

		_, err := svc.ToggleLike(ctx, userID, target)
		assert.Error(t, err)
	})
}

func TestRelationService_ToggleSubscription(t *testing.T) {
	ctx := context.Background()
	subscriberID := uuid.New()
	channelID := uuid.New()
	channel := &models.UserDB{UserID: channelID, Username: "channel"}

	t.Run("subscribes and invalidates cached stats", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		subs := services.NewMockSubscriptionRepo(ctrl)
		users := services.NewMockUserReader(ctrl)
		cache := services.NewMockStatsInvalidator(ctrl)
		svc := services.NewRelationService(nil, subs, users, cache, nil)

		created := &models.SubscriptionDB{SubscriptionID: uuid.New(), SubscriberID: subscriberID, ChannelID: channelID}
		users.EXPECT().GetByID(gomock.Any(), channelID).Return(channel, nil)
		subs.EXPECT().Get(gomock.Any(), subscriberID, channelID).Return(nil, nil)
		subs.EXPECT().Create(gomock.Any(), subscriberID, channelID).Return(created, nil)
		cache.EXPECT().Invalidate(gomock.Any(), subscriberID, channelID).Return(nil)

		result, err := svc.ToggleSubscription(ctx, subscriberID, channelID)
		assert.NoError(t, err)
		assert.Equal(t, models.ToggleAdded, result.State)
		assert.Equal(t, created, result.Record)
	})

	t.Run("unsubscribes an existing subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		subs := services.NewMockSubscriptionRepo(ctrl)
		users := services.NewMockUserReader(ctrl)
		cache := services.NewMockStatsInvalidator(ctrl)
		svc := services.NewRelationService(nil, subs, users, cache, nil)

		existing := &models.SubscriptionDB{SubscriptionID: uuid.New(), SubscriberID: subscriberID, ChannelID: channelID}
		users.EXPECT().GetByID(gomock.Any(), channelID).Return(channel, nil)
		subs.EXPECT().Get(gomock.Any(), subscriberID, channelID).Return(existing, nil)
		subs.EXPECT().Delete(gomock.Any(), existing.SubscriptionID).Return(nil)
		cache.EXPECT().Invalidate(gomock.Any(), subscriberID, channelID).Return(nil)

		result, err := svc.ToggleSubscription(ctx, subscriberID, channelID)
		assert.NoError(t, err)
		assert.Equal(t, models.ToggleRemoved, result.State)
	})

	t.Run("rejects self subscription", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := services.NewRelationService(nil, nil, nil, nil, nil)

		_, err := svc.ToggleSubscription(ctx, subscriberID, subscriberID)
		assert.Error(t, err)
	})

	t.Run("unknown channel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		users := services.NewMockUserReader(ctrl)
		svc := services.NewRelationService(nil, nil, users, nil, nil)

		users.EXPECT().GetByID(gomock.Any(), channelID).Return(nil, nil)

		_, err := svc.ToggleSubscription(ctx, subscriberID, channelID)
		assert.ErrorIs(t, err, services.ErrChannelNotFound)
	})

	t.Run("lost race resolves as added", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		subs := services.NewMockSubscriptionRepo(ctrl)
		users := services.NewMockUserReader(ctrl)
		svc := services.NewRelationService(nil, subs, users, nil, nil)

		users.EXPECT().GetByID(gomock.Any(), channelID).Return(channel, nil)
		subs.EXPECT().Get(gomock.Any(), subscriberID, channelID).Return(nil, nil)
		subs.EXPECT().Create(gomock.Any(), subscriberID, channelID).Return(nil, repositories.ErrDuplicateRelation)

		result, err := svc.ToggleSubscription(ctx, subscriberID, channelID)
		assert.NoError(t, err)
		assert.Equal(t, models.ToggleAdded, result.State)
	})
}

func TestRelationService_LikedVideos(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	likes := services.NewMockLikeRepo(ctrl)
	svc := services.NewRelationService(likes, nil, nil, nil, nil)

	userID := uuid.New()
	videos := []models.VideoWithOwner{{VideoDB: models.VideoDB{VideoID: uuid.New(), Title: "first"}}}
	likes.EXPECT().ListLikedVideos(gomock.Any(), userID).Return(videos, nil)

	got, err := svc.LikedVideos(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, videos, got)
}
