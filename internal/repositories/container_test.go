package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/google/uuid"
	"github.com/vidtube/vidtube-api/internal/models"
)

const testSchema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	username VARCHAR(50) NOT NULL UNIQUE,
	email VARCHAR(100) NOT NULL UNIQUE,
	full_name VARCHAR(100) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	refresh_token TEXT,
	avatar_url TEXT NOT NULL,
	avatar_public_id TEXT NOT NULL,
	cover_image_url TEXT,
	cover_image_public_id TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS videos (
	video_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	owner_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	video_url TEXT NOT NULL,
	video_public_id TEXT NOT NULL,
	thumbnail_url TEXT NOT NULL,
	thumbnail_public_id TEXT NOT NULL,
	duration DOUBLE PRECISION NOT NULL DEFAULT 0,
	views BIGINT NOT NULL DEFAULT 0,
	is_published BOOLEAN NOT NULL DEFAULT TRUE,
	is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS comments (
	comment_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	video_id UUID NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
	owner_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tweets (
	tweet_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	owner_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS likes (
	like_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	liked_by UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	video_id UUID REFERENCES videos(video_id) ON DELETE CASCADE,
	comment_id UUID REFERENCES comments(comment_id) ON DELETE CASCADE,
	tweet_id UUID REFERENCES tweets(tweet_id) ON DELETE CASCADE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	CHECK (num_nonnulls(video_id, comment_id, tweet_id) = 1)
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_likes_video ON likes(liked_by, video_id) WHERE video_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS uq_likes_comment ON likes(liked_by, comment_id) WHERE comment_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS uq_likes_tweet ON likes(liked_by, tweet_id) WHERE tweet_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS subscriptions (
	subscription_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	subscriber_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	channel_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	UNIQUE (subscriber_id, channel_id),
	CHECK (subscriber_id <> channel_id)
);

CREATE TABLE IF NOT EXISTS playlists (
	playlist_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
	owner_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	name VARCHAR(255) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS playlist_videos (
	playlist_id UUID NOT NULL REFERENCES playlists(playlist_id) ON DELETE CASCADE,
	video_id UUID NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
	position INT NOT NULL,
	added_at TIMESTAMP NOT NULL DEFAULT NOW(),
	PRIMARY KEY (playlist_id, video_id)
);

CREATE TABLE IF NOT EXISTS watch_history (
	user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
	video_id UUID NOT NULL REFERENCES videos(video_id) ON DELETE CASCADE,
	watched_at TIMESTAMP NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, video_id)
);
`

func setupPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	_, err = db.Exec(testSchema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func seedUser(t *testing.T, db *sqlx.DB, username string) models.UserDB {
	t.Helper()

	repo := NewUserWriteRepository(db)
	user, err := repo.Save(context.Background(), models.UserDB{
		UserID:       uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		PasswordHash: "hash",
		AvatarURL:    "http://media/avatars/" + username + ".png",
		AvatarID:     "avatars/" + username + ".png",
	})
	assert.NoError(t, err)
	assert.NotNil(t, user)
	return *user
}

func seedVideo(t *testing.T, db *sqlx.DB, ownerID uuid.UUID, title string) models.VideoDB {
	t.Helper()

	repo := NewVideoWriteRepository(db)
	video, err := repo.Save(context.Background(), models.VideoDB{
		VideoID:      uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  "about " + title,
		VideoURL:     "http://media/videos/" + title + ".mp4",
		VideoAssetID: "videos/" + title + ".mp4",
		ThumbnailURL: "http://media/thumbnails/" + title + ".jpg",
		ThumbAssetID: "thumbnails/" + title + ".jpg",
		Duration:     42.5,
		IsPublished:  true,
	})
	assert.NoError(t, err)
	assert.NotNil(t, video)
	return *video
}
