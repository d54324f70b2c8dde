package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

var (
	ErrCommentNotFound = apperrors.NotFound("Comment not found")
	ErrNotCommentOwner = apperrors.Forbidden("You do not own this comment")
)

// CommentReader defines read operations for comments.
type CommentReader interface {
	GetByID(ctx context.Context, commentID uuid.UUID) (*models.CommentDB, error)
	ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) ([]models.CommentWithOwner, int64, error)
}

// CommentWriter defines write operations for comments.
type CommentWriter interface {
	Save(ctx context.Context, comment models.CommentDB) (*models.CommentDB, error)
	Update(ctx context.Context, commentID uuid.UUID, content string) (*models.CommentDB, error)
	Delete(ctx context.Context, commentID uuid.UUID) error
}

// CommentService handles video comments with the usual ownership gate.
type CommentService struct {
	reader CommentReader
	writer CommentWriter
	videos VideoReader
}

func NewCommentService(reader CommentReader, writer CommentWriter, videos VideoReader) *CommentService {
	return &CommentService{reader: reader, writer: writer, videos: videos}
}

// ListByVideo returns a page of comments for a video.
func (svc *CommentService) ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) (*models.CommentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	comments, total, err := svc.reader.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		logger.Log.Errorw("failed to list comments", "video_id", videoID, "err", err)
		return nil, apperrors.Internal(err)
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return &models.CommentPage{
		Comments:   comments,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Add creates a comment on a video.
func (svc *CommentService) Add(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*models.CommentDB, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Content is required")
	}

	video, err := svc.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	saved, err := svc.writer.Save(ctx, models.CommentDB{
		CommentID: uuid.New(),
		VideoID:   videoID,
		OwnerID:   ownerID,
		Content:   content,
	})
	if err != nil {
		logger.Log.Errorw("failed to save comment", "video_id", videoID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return saved, nil
}

// Update replaces a comment's content. Only the owner may update.
func (svc *CommentService) Update(ctx context.Context, commentID, requesterID uuid.UUID, content string) (*models.CommentDB, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.Validation("Content is required")
	}

	if err := svc.checkOwner(ctx, commentID, requesterID); err != nil {
		return nil, err
	}

	updated, err := svc.writer.Update(ctx, commentID, content)
	if err != nil {
		logger.Log.Errorw("failed to update comment", "comment_id", commentID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, ErrCommentNotFound
	}
	return updated, nil
}

// Delete removes a comment. Only the owner may delete. Hard delete.
func (svc *CommentService) Delete(ctx context.Context, commentID, requesterID uuid.UUID) error {
	if err := svc.checkOwner(ctx, commentID, requesterID); err != nil {
		return err
	}

	if err := svc.writer.Delete(ctx, commentID); err != nil {
		logger.Log.Errorw("failed to delete comment", "comment_id", commentID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

func (svc *CommentService) checkOwner(ctx context.Context, commentID, requesterID uuid.UUID) error {
	comment, err := svc.reader.GetByID(ctx, commentID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.OwnerID != requesterID {
		return ErrNotCommentOwner
	}
	return nil
}
