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

// ErrDuplicateRelation is returned when a relation insert loses the race
// against a concurrent insert for the same (subject, object) pair.
var ErrDuplicateRelation = errors.New("relation already exists")

// likeTargetColumns maps a like target kind to its column. Kinds are a
// closed set, so the column name never comes from user input.
var likeTargetColumns = map[models.LikeTargetKind]string{
	models.LikeTargetVideo:   "video_id",
	models.LikeTargetComment: "comment_id",
	models.LikeTargetTweet:   "tweet_id",
}

type LikeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Get returns the like row for (user, target), or nil when absent.
func (r *LikeRepository) Get(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*models.LikeDB, error) {
	col, ok := likeTargetColumns[target.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown like target kind %q", target.Kind)
	}

	query := fmt.Sprintf(`
		SELECT like_id, liked_by, video_id, comment_id, tweet_id, created_at
		FROM likes WHERE liked_by = $1 AND %s = $2`, col)

	var like models.LikeDB
	err := r.db.GetContext(ctx, &like, query, userID, target.ID)

	logger.Log.Infow("like read",
		"query", strings.Join(strings.Fields(query), " "),
		"liked_by", userID,
		"target", target.ID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Create inserts a like row for (user, target). A racing duplicate
// insert surfaces as ErrDuplicateRelation via the partial unique index.
func (r *LikeRepository) Create(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (*models.LikeDB, error) {
	col, ok := likeTargetColumns[target.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown like target kind %q", target.Kind)
	}

	query := fmt.Sprintf(`
		INSERT INTO likes (like_id, liked_by, %s, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING like_id, liked_by, video_id, comment_id, tweet_id, created_at`, col)

	var like models.LikeDB
	err := r.db.GetContext(ctx, &like, query, uuid.New(), userID, target.ID)

	logger.Log.Infow("like insert",
		"query", strings.Join(strings.Fields(query), " "),
		"liked_by", userID,
		"target", target.ID,
		"error", err,
	)

	if IsUniqueViolation(err) {
		return nil, ErrDuplicateRelation
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// Delete removes a like row by id.
func (r *LikeRepository) Delete(ctx context.Context, likeID uuid.UUID) error {
	query := `DELETE FROM likes WHERE like_id = $1`
	_, err := r.db.ExecContext(ctx, query, likeID)

	logger.Log.Infow("like delete",
		"query", strings.Join(strings.Fields(query), " "),
		"like_id", likeID,
		"error", err,
	)
	return err
}

// ListLikedVideos returns the user's liked videos, newest like first.
// Soft-deleted videos drop out of the result.
func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID uuid.UUID) ([]models.VideoWithOwner, error) {
	query := `
		SELECT ` + videoOwnerColumns + `
		FROM likes l
		JOIN videos v ON v.video_id = l.video_id
		JOIN users u ON u.user_id = v.owner_id
		WHERE l.liked_by = $1 AND NOT v.is_deleted
		ORDER BY l.created_at DESC`

	videos := []models.VideoWithOwner{}
	err := r.db.SelectContext(ctx, &videos, query, userID)

	logger.Log.Infow("liked videos list",
		"query", strings.Join(strings.Fields(query), " "),
		"liked_by", userID,
		"count", len(videos),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return videos, nil
}
