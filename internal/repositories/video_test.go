package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/models"
)

func TestVideoRepository_SoftDelete(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	readRepo := NewVideoReadRepository(db)
	writeRepo := NewVideoWriteRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.UserID, "clip")

	got, err := readRepo.GetByID(ctx, video.VideoID)
	assert.NoError(t, err)
	assert.Equal(t, "clip", got.Title)
	assert.Equal(t, "owner", got.Owner.Username)

	assert.NoError(t, writeRepo.SoftDelete(ctx, video.VideoID))

	t.Run("invisible to direct lookup", func(t *testing.T) {
		got, err := readRepo.GetByID(ctx, video.VideoID)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invisible to listing", func(t *testing.T) {
		videos, total, err := readRepo.List(ctx, models.VideoListFilter{Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, videos)
	})

	t.Run("row stays behind", func(t *testing.T) {
		var deleted bool
		err := db.Get(&deleted, "SELECT is_deleted FROM videos WHERE video_id = $1", video.VideoID)
		assert.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestVideoReadRepository_List(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	readRepo := NewVideoReadRepository(db)
	writeRepo := NewVideoWriteRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedVideo(t, db, alice.UserID, "cooking pasta")
	seedVideo(t, db, alice.UserID, "cooking rice")
	drafted := seedVideo(t, db, bob.UserID, "unlisted take")

	_, err := writeRepo.SetPublished(ctx, drafted.VideoID, false)
	assert.NoError(t, err)

	t.Run("unpublished excluded", func(t *testing.T) {
		videos, total, err := readRepo.List(ctx, models.VideoListFilter{Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, videos, 2)
	})

	t.Run("title search", func(t *testing.T) {
		videos, total, err := readRepo.List(ctx, models.VideoListFilter{Query: "PASTA", Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "cooking pasta", videos[0].Title)
	})

	t.Run("owner filter", func(t *testing.T) {
		videos, total, err := readRepo.List(ctx, models.VideoListFilter{OwnerID: &alice.UserID, Page: 1, Limit: 10})
		assert.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, v := range videos {
			assert.Equal(t, alice.UserID, v.OwnerID)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		videos, total, err := readRepo.List(ctx, models.VideoListFilter{Page: 2, Limit: 1})
		assert.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, videos, 1)
	})
}

func TestVideoWriteRepository_IncrementViews(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	readRepo := NewVideoReadRepository(db)
	writeRepo := NewVideoWriteRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner.UserID, "popular")

	assert.NoError(t, writeRepo.IncrementViews(ctx, video.VideoID))
	assert.NoError(t, writeRepo.IncrementViews(ctx, video.VideoID))

	got, err := readRepo.GetByID(ctx, video.VideoID)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)
}

func TestVideoWriteRepository_Update(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewVideoWriteRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "editor")
	video := seedVideo(t, db, owner.UserID, "draft")

	t.Run("thumbnail kept when nil", func(t *testing.T) {
		updated, err := writeRepo.Update(ctx, video.VideoID, "final", "done", nil)
		assert.NoError(t, err)
		assert.Equal(t, "final", updated.Title)
		assert.Equal(t, video.ThumbnailURL, updated.ThumbnailURL)
	})

	t.Run("thumbnail replaced", func(t *testing.T) {
		updated, err := writeRepo.Update(ctx, video.VideoID, "final", "done",
			&models.MediaAsset{URL: "http://media/new.jpg", PublicID: "thumbnails/new.jpg"})
		assert.NoError(t, err)
		assert.Equal(t, "http://media/new.jpg", updated.ThumbnailURL)
	})

	t.Run("absent video", func(t *testing.T) {
		updated, err := writeRepo.Update(ctx, uuid.New(), "x", "y", nil)
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})
}
