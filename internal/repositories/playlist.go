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

type PlaylistReadRepository struct {
	db *sqlx.DB
}

func NewPlaylistReadRepository(db *sqlx.DB) *PlaylistReadRepository {
	return &PlaylistReadRepository{db: db}
}

// GetByID returns a playlist, or nil when absent.
func (r *PlaylistReadRepository) GetByID(ctx context.Context, playlistID uuid.UUID) (*models.PlaylistDB, error) {
	query := `
		SELECT playlist_id, owner_id, name, description, created_at, updated_at
		FROM playlists WHERE playlist_id = $1`

	var playlist models.PlaylistDB
	err := r.db.GetContext(ctx, &playlist, query, playlistID)

	logger.Log.Infow("playlist read",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlistID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

// ListByOwner returns all playlists owned by a user, newest first.
func (r *PlaylistReadRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.PlaylistDB, error) {
	query := `
		SELECT playlist_id, owner_id, name, description, created_at, updated_at
		FROM playlists WHERE owner_id = $1
		ORDER BY created_at DESC`

	playlists := []models.PlaylistDB{}
	err := r.db.SelectContext(ctx, &playlists, query, ownerID)

	logger.Log.Infow("playlist list",
		"query", strings.Join(strings.Fields(query), " "),
		"owner_id", ownerID,
		"count", len(playlists),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return playlists, nil
}

// ListVideos returns a playlist's videos in position order, skipping
// soft-deleted ones.
func (r *PlaylistReadRepository) ListVideos(ctx context.Context, playlistID uuid.UUID) ([]models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoOwnerColumns + `
		FROM playlist_videos pv
		JOIN videos v ON v.video_id = pv.video_id
		JOIN users u ON u.user_id = v.owner_id
		WHERE pv.playlist_id = $1 AND NOT v.is_deleted
		ORDER BY pv.position ASC`

	videos := []models.VideoWithOwner{}
	err := r.db.SelectContext(ctx, &videos, query, playlistID)

	logger.Log.Infow("playlist videos list",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlistID,
		"count", len(videos),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return videos, nil
}

type PlaylistWriteRepository struct {
	db *sqlx.DB
}

func NewPlaylistWriteRepository(db *sqlx.DB) *PlaylistWriteRepository {
	return &PlaylistWriteRepository{db: db}
}

// Save inserts a new playlist and returns the stored row.
func (r *PlaylistWriteRepository) Save(ctx context.Context, playlist models.PlaylistDB) (*models.PlaylistDB, error) {
	query := `
		INSERT INTO playlists (playlist_id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING playlist_id, owner_id, name, description, created_at, updated_at`

	var saved models.PlaylistDB
	err := r.db.GetContext(ctx, &saved, query, playlist.PlaylistID, playlist.OwnerID, playlist.Name, playlist.Description)

	logger.Log.Infow("playlist insert",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlist.PlaylistID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update patches name and description, returning the updated row or nil
// when the playlist is absent.
func (r *PlaylistWriteRepository) Update(ctx context.Context, playlistID uuid.UUID, name, description string) (*models.PlaylistDB, error) {
	query := `
		UPDATE playlists SET name = $2, description = $3, updated_at = NOW()
		WHERE playlist_id = $1
		RETURNING playlist_id, owner_id, name, description, created_at, updated_at`

	var updated models.PlaylistDB
	err := r.db.GetContext(ctx, &updated, query, playlistID, name, description)

	logger.Log.Infow("playlist update",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlistID,
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

// Delete removes the playlist along with its membership rows.
func (r *PlaylistWriteRepository) Delete(ctx context.Context, playlistID uuid.UUID) error {
	query := `DELETE FROM playlists WHERE playlist_id = $1`
	_, err := r.db.ExecContext(ctx, query, playlistID)

	logger.Log.Infow("playlist delete",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlistID,
		"error", err,
	)
	return err
}

// AddVideo appends a video to the end of the playlist. Adding the same
// video twice is a no-op thanks to the unique membership constraint.
func (r *PlaylistWriteRepository) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	query := `
		INSERT INTO playlist_videos (playlist_id, video_id, position)
		VALUES ($1, $2, (
			SELECT COALESCE(MAX(position), 0) + 1
			FROM playlist_videos WHERE playlist_id = $1
		))
		ON CONFLICT (playlist_id, video_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, playlistID, videoID)

	logger.Log.Infow("playlist video add",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlistID,
		"video_id", videoID,
		"error", err,
	)
	return err
}

// RemoveVideo drops a video from the playlist.
func (r *PlaylistWriteRepository) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`
	_, err := r.db.ExecContext(ctx, query, playlistID, videoID)

	logger.Log.Infow("playlist video remove",
		"query", strings.Join(strings.Fields(query), " "),
		"playlist_id", playlistID,
		"video_id", videoID,
		"error", err,
	)
	return err
}
