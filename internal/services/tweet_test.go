package services_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

func newTweetService(t *testing.T) (*services.TweetService, *services.MockTweetReader, *services.MockTweetWriter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reader := services.NewMockTweetReader(ctrl)
	writer := services.NewMockTweetWriter(ctrl)

	return services.NewTweetService(reader, writer), reader, writer
}

func TestTweetService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("posts a tweet", func(t *testing.T) {
		svc, _, writer := newTweetService(t)

		writer.EXPECT().
			Save(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tweet models.TweetDB) (*models.TweetDB, error) {
				assert.Equal(t, ownerID, tweet.OwnerID)
				assert.Equal(t, "hello world", tweet.Content)
				return &tweet, nil
			})

		tweet, err := svc.Create(ctx, ownerID, "  hello world  ")
		assert.NoError(t, err)
		assert.Equal(t, "hello world", tweet.Content)
	})

	t.Run("blank content", func(t *testing.T) {
		svc, _, _ := newTweetService(t)

		_, err := svc.Create(ctx, ownerID, "   ")
		assert.Error(t, err)
	})
}

func TestTweetService_ListByUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	svc, reader, _ := newTweetService(t)

	tweets := []models.TweetDB{{TweetID: uuid.New(), OwnerID: userID, Content: "one"}}
	reader.EXPECT().ListByOwner(gomock.Any(), userID).Return(tweets, nil)

	got, err := svc.ListByUser(ctx, userID)
	assert.NoError(t, err)
	assert.Equal(t, tweets, got)
}

func TestTweetService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	tweetID := uuid.New()
	stored := &models.TweetDB{TweetID: tweetID, OwnerID: ownerID, Content: "old"}

	t.Run("owner updates content", func(t *testing.T) {
		svc, reader, writer := newTweetService(t)

		reader.EXPECT().GetByID(gomock.Any(), tweetID).Return(stored, nil)
		writer.EXPECT().Update(gomock.Any(), tweetID, "new").
			Return(&models.TweetDB{TweetID: tweetID, OwnerID: ownerID, Content: "new"}, nil)

		updated, err := svc.Update(ctx, tweetID, ownerID, "new")
		assert.NoError(t, err)
		assert.Equal(t, "new", updated.Content)
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, reader, _ := newTweetService(t)

		reader.EXPECT().GetByID(gomock.Any(), tweetID).Return(stored, nil)

		_, err := svc.Update(ctx, tweetID, uuid.New(), "new")
		assert.ErrorIs(t, err, services.ErrNotTweetOwner)
	})

	t.Run("absent tweet", func(t *testing.T) {
		svc, reader, _ := newTweetService(t)

		reader.EXPECT().GetByID(gomock.Any(), tweetID).Return(nil, nil)

		_, err := svc.Update(ctx, tweetID, ownerID, "new")
		assert.ErrorIs(t, err, services.ErrTweetNotFound)
	})
}

func TestTweetService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	tweetID := uuid.New()
	stored := &models.TweetDB{TweetID: tweetID, OwnerID: ownerID, Content: "old"}

	t.Run("owner deletes", func(t *testing.T) {
		svc, reader, writer := newTweetService(t)

		reader.EXPECT().GetByID(gomock.Any(), tweetID).Return(stored, nil)
		writer.EXPECT().Delete(gomock.Any(), tweetID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, tweetID, ownerID))
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, reader, _ := newTweetService(t)

		reader.EXPECT().GetByID(gomock.Any(), tweetID).Return(stored, nil)

		assert.ErrorIs(t, svc.Delete(ctx, tweetID, uuid.New()), services.ErrNotTweetOwner)
	})
}
