package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWatchHistoryRepository_Upsert(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewWatchHistoryRepository(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	owner := seedUser(t, db, "owner")
	first := seedVideo(t, db, owner.UserID, "first")
	second := seedVideo(t, db, owner.UserID, "second")

	assert.NoError(t, repo.Upsert(ctx, viewer.UserID, first.VideoID))
	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, repo.Upsert(ctx, viewer.UserID, second.VideoID))

	t.Run("most recent first", func(t *testing.T) {
		history, err := repo.ListByUser(ctx, viewer.UserID)
		assert.NoError(t, err)
		assert.Len(t, history, 2)
		assert.Equal(t, second.VideoID, history[0].VideoID)
		assert.Equal(t, first.VideoID, history[1].VideoID)
	})

	t.Run("rewatch moves the entry up without duplicating", func(t *testing.T) {
		time.Sleep(10 * time.Millisecond)
		assert.NoError(t, repo.Upsert(ctx, viewer.UserID, first.VideoID))

		history, err := repo.ListByUser(ctx, viewer.UserID)
		assert.NoError(t, err)
		assert.Len(t, history, 2)
		assert.Equal(t, first.VideoID, history[0].VideoID)
	})
}

func TestWatchHistoryRepository_SkipsDeletedVideos(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	historyRepo := NewWatchHistoryRepository(db)
	videoRepo := NewVideoWriteRepository(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.UserID, "short lived")

	assert.NoError(t, historyRepo.Upsert(ctx, viewer.UserID, video.VideoID))
	assert.NoError(t, videoRepo.SoftDelete(ctx, video.VideoID))

	history, err := historyRepo.ListByUser(ctx, viewer.UserID)
	assert.NoError(t, err)
	assert.Empty(t, history)
}
