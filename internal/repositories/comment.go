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

const commentOwnerColumns = `
	c.comment_id, c.video_id, c.owner_id, c.content, c.created_at, c.updated_at,
	u.user_id AS "owner.user_id", u.username AS "owner.username",
	u.full_name AS "owner.full_name", u.avatar_url AS "owner.avatar_url"
`

type CommentReadRepository struct {
	db *sqlx.DB
}

func NewCommentReadRepository(db *sqlx.DB) *CommentReadRepository {
	return &CommentReadRepository{db: db}
}

// GetByID returns a comment, or nil when absent.
func (r *CommentReadRepository) GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error) {
	query := `
		SELECT comment_id, video_id, owner_id, content, created_at, updated_at
		FROM comments WHERE comment_id = $1`

	var comment models.CommentDB
	err := r.db.GetContext(ctx, &comment, query, commentID)

	logger.Log.Infow("comment read",
		"query", strings.Join(strings.Fields(query), " "),
		"comment_id", commentID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByVideo returns a page of comments for a video, newest first,
// with the total count.
func (r *CommentReadRepository) ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) ([]models.CommentWithOwner, int64, error) {
	countQuery := `SELECT COUNT(*) FROM comments WHERE video_id = $1`
	var total int64
	if err := r.db.GetContext(ctx, &total, countQuery, videoID); err != nil {
		logger.Log.Infow("comment count",
			"query", strings.Join(strings.Fields(countQuery), " "),
			"video_id", videoID,
			"error", err,
		)
		return nil, 0, err
	}

	query := `
		SELECT ` + commentOwnerColumns + `
		FROM comments c
		JOIN users u ON u.user_id = c.owner_id
		WHERE c.video_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`

	comments := []models.CommentWithOwner{}
	err := r.db.SelectContext(ctx, &comments, query, videoID, limit, (page-1)*limit)

	logger.Log.Infow("comment list",
		"query", strings.Join(strings.Fields(query), " "),
		"video_id", videoID,
		"count", len(comments),
		"error", err,
	)

	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

type CommentWriteRepository struct {
	db *sqlx.DB
}

func NewCommentWriteRepository(db *sqlx.DB) *CommentWriteRepository {
	return &CommentWriteRepository{db: db}
}

// Save inserts a new comment and returns the stored row.
func (r *CommentWriteRepository) Save(ctx context.Context, comment models.CommentDB) (*models.CommentDB, error) {
	query := `
		INSERT INTO comments (comment_id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING comment_id, video_id, owner_id, content, created_at, updated_at`

	var saved models.CommentDB
	err := r.db.GetContext(ctx, &saved, query, comment.CommentID, comment.VideoID, comment.OwnerID, comment.Content)

	logger.Log.Infow("comment insert",
		"query", strings.Join(strings.Fields(query), " "),
		"comment_id", comment.CommentID,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update replaces the comment content and returns the updated row, or
// nil when the comment is absent.
func (r *CommentWriteRepository) Update(ctx context.Context, commentID uuid.UUID, content string) (*models.CommentDB, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE comment_id = $1
		RETURNING comment_id, video_id, owner_id, content, created_at, updated_at`

	var updated models.CommentDB
	err := r.db.GetContext(ctx, &updated, query, commentID, content)

	logger.Log.Infow("comment update",
		"query", strings.Join(strings.Fields(query), " "),
		"comment_id", commentID,
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

// Delete removes the comment. Hard delete: dependent likes go with it
// via the FK cascade.
func (r *CommentWriteRepository) Delete(ctx context.Context, commentID uuid.UUID) error {
	query := `DELETE FROM comments WHERE comment_id = $1`
	_, err := r.db.ExecContext(ctx, query, commentID)

	logger.Log.Infow("comment delete",
		"query", strings.Join(strings.Fields(query), " "),
		"comment_id", commentID,
		"error", err,
	)
	return err
}
