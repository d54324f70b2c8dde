package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

type WatchHistoryRepository struct {
	db *sqlx.DB
}

func NewWatchHistoryRepository(db *sqlx.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

// Upsert records that the user watched the video now. A re-watch moves
// the entry to the front of the history instead of duplicating it.
func (r *WatchHistoryRepository) Upsert(ctx context.Context, userID, videoID uuid.UUID) error {
	query := `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, userID, videoID)

	logger.Log.Infow("watch history upsert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"video_id", videoID,
		"error", err,
	)
	return err
}

// ListByUser returns the user's watch history, most recent first, each
// entry resolved into the full video with owner projection.
func (r *WatchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoOwnerColumns + `
		FROM watch_history h
		JOIN videos v ON v.video_id = h.video_id
		JOIN users u ON u.user_id = v.owner_id
		WHERE h.user_id = $1 AND NOT v.is_deleted
		ORDER BY h.watched_at DESC`

	videos := []models.VideoWithOwner{}
	err := r.db.SelectContext(ctx, &videos, query, userID)

	logger.Log.Infow("watch history list",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"count", len(videos),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return videos, nil
}
