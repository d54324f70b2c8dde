package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

const videoColumns = `
	v.video_id, v.owner_id, v.title, v.description,
	v.video_url, v.video_public_id, v.thumbnail_url, v.thumbnail_public_id,
	v.duration, v.views, v.is_published, v.is_deleted, v.created_at, v.updated_at
`

const videoOwnerColumns = videoColumns + `,
	u.user_id AS "owner.user_id", u.username AS "owner.username",
	u.full_name AS "owner.full_name", u.avatar_url AS "owner.avatar_url"
`

// videoSortColumns whitelists sortable columns for the public listing.
var videoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"views":     "v.views",
	"duration":  "v.duration",
	"title":     "v.title",
}

type VideoReadRepository struct {
	db *sqlx.DB
}

func NewVideoReadRepository(db *sqlx.DB) *VideoReadRepository {
	return &VideoReadRepository{db: db}
}

// GetByID returns a video with its owner projection, or nil when the
// video is absent or soft-deleted.
func (r *VideoReadRepository) GetByID(ctx context.Context, videoID uuid.UUID) (*models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoOwnerColumns + `
		FROM videos v
		JOIN users u ON u.user_id = v.owner_id
		WHERE v.video_id = $1 AND NOT v.is_deleted`

	var video models.VideoWithOwner
	err := r.db.GetContext(ctx, &video, query, videoID)

	logger.Log.Infow("video read",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", videoID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// List returns a page of published, non-deleted videos matching the
// filter, along with the total match count.
func (r *VideoReadRepository) List(ctx context.Context, filter models.VideoListFilter) ([]models.VideoWithOwner, int64, error) {
	where := []string{"v.is_published", "NOT v.is_deleted"}
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = append(where, fmt.Sprintf("(v.title ILIKE $%d OR v.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		where = append(where, fmt.Sprintf("v.owner_id = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM videos v WHERE ` + whereClause
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		logger.Log.Infow("video count",
			"query", strings.Join(strings.Fields(countQuery), " "),
			"args", args,
			"error", err,
		)
		return nil, 0, err
	}

	sortCol, ok := videoSortColumns[filter.SortBy]
	if !ok {
		sortCol = "v.created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		JOIN users u ON u.user_id = v.owner_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		videoOwnerColumns, whereClause, sortCol, direction, len(args)-1, len(args))

	videos := []models.VideoWithOwner{}
	err := r.db.SelectContext(ctx, &videos, query, args...)

	logger.Log.Infow("video list",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"count", len(videos),
		"error", err,
	)

	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

type VideoWriteRepository struct {
	db *sqlx.DB
}

func NewVideoWriteRepository(db *sqlx.DB) *VideoWriteRepository {
	return &VideoWriteRepository{db: db}
}

// Save inserts a new video and returns the stored row.
func (r *VideoWriteRepository) Save(ctx context.Context, video models.VideoDB) (*models.VideoDB, error) {
	query := `
		INSERT INTO videos (
			video_id, owner_id, title, description,
			video_url, video_public_id, thumbnail_url, thumbnail_public_id,
			duration, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING video_id, owner_id, title, description,
			video_url, video_public_id, thumbnail_url, thumbnail_public_id,
			duration, views, is_published, is_deleted, created_at, updated_at`
	args := []any{
		video.VideoID, video.OwnerID, video.Title, video.Description,
		video.VideoURL, video.VideoAssetID, video.ThumbnailURL, video.ThumbAssetID,
		video.Duration,
	}

	var saved models.VideoDB
	err := r.db.GetContext(ctx, &saved, query, args...)

	logger.Log.Infow("video insert",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", video.VideoID,
		"owner_id", video.OwnerID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update patches title, description and optionally the thumbnail, and
// returns the updated row. Returns nil when the video is absent.
func (r *VideoWriteRepository) Update(ctx context.Context, videoID uuid.UUID, title, description string, thumbnail *models.MediaAsset) (*models.VideoDB, error) {
	query := `
		UPDATE videos SET
			title = $2,
			description = $3,
			thumbnail_url = COALESCE($4, thumbnail_url),
			thumbnail_public_id = COALESCE($5, thumbnail_public_id),
			updated_at = NOW()
		WHERE video_id = $1 AND NOT is_deleted
		RETURNING video_id, owner_id, title, description,
			video_url, video_public_id, thumbnail_url, thumbnail_public_id,
			duration, views, is_published, is_deleted, created_at, updated_at`

	var thumbURL, thumbID *string
	if thumbnail != nil {
		thumbURL, thumbID = &thumbnail.URL, &thumbnail.PublicID
	}

	var updated models.VideoDB
	err := r.db.GetContext(ctx, &updated, query, videoID, title, description, thumbURL, thumbID)

	logger.Log.Infow("video update",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", videoID,
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

// SoftDelete marks the video deleted. Rows stay behind for direct-id
// bookkeeping but disappear from every listing.
func (r *VideoWriteRepository) SoftDelete(ctx context.Context, videoID uuid.UUID) error {
	query := `UPDATE videos SET is_deleted = TRUE, updated_at = NOW() WHERE video_id = $1`
	_, err := r.db.ExecContext(ctx, query, videoID)

	logger.Log.Infow("video soft delete",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", videoID,
		"error", err,
	)
	return err
}

// SetPublished flips the publish flag and returns the updated row.
func (r *VideoWriteRepository) SetPublished(ctx context.Context, videoID uuid.UUID, published bool) (*models.VideoDB, error) {
	query := `
		UPDATE videos SET is_published = $2, updated_at = NOW()
		WHERE video_id = $1 AND NOT is_deleted
		RETURNING video_id, owner_id, title, description,
			video_url, video_public_id, thumbnail_url, thumbnail_public_id,
			duration, views, is_published, is_deleted, created_at, updated_at`

	var updated models.VideoDB
	err := r.db.GetContext(ctx, &updated, query, videoID, published)

	logger.Log.Infow("video publish toggle",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", videoID,
		"published", published,
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

// IncrementViews bumps the view counter by one.
func (r *VideoWriteRepository) IncrementViews(ctx context.Context, videoID uuid.UUID) error {
	query := `UPDATE videos SET views = views + 1 WHERE video_id = $1`
	_, err := r.db.ExecContext(ctx, query, videoID)

	logger.Log.Infow("video views increment",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", videoID,
		"error", err,
	)
	return err
}
