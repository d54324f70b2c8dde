package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

var (
	ErrVideoNotFound = apperrors.NotFound("Video not found")
	ErrNotVideoOwner = apperrors.Forbidden("You do not own this video")
)

// VideoReader defines read operations for videos.
type VideoReader interface {
	GetByID(ctx context.Context, videoID uuid.UUID) (*models.VideoWithOwner, error)
	List(ctx context.Context, filter models.VideoListFilter) ([]models.VideoWithOwner, int64, error)
}

// VideoWriter defines write operations for videos.
type VideoWriter interface {
	Save(ctx context.Context, video models.VideoDB) (*models.VideoDB, error)
	Update(ctx context.Context, videoID uuid.UUID, title, description string, thumbnail *models.MediaAsset) (*models.VideoDB, error)
	SoftDelete(ctx context.Context, videoID uuid.UUID) error
	SetPublished(ctx context.Context, videoID uuid.UUID, published bool) (*models.VideoDB, error)
	IncrementViews(ctx context.Context, videoID uuid.UUID) error
}

// HistoryWriter records views into the watch history.
type HistoryWriter interface {
	Upsert(ctx context.Context, userID, videoID uuid.UUID) error
}

// PublishVideoInput is the payload for publishing a new video.
type PublishVideoInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *FileUpload
	Thumbnail   *FileUpload
}

// UpdateVideoInput is the patch payload for an existing video.
type UpdateVideoInput struct {
	Title       string
	Description string
	Thumbnail   *FileUpload // optional replacement
}

// VideoService handles the video lifecycle: publish with two media
// uploads and compensating cleanup, ownership-gated mutation, soft
// delete, and the public listing.
type VideoService struct {
	reader        VideoReader
	writer        VideoWriter
	history       HistoryWriter
	media         MediaStore
	kafkaWriter   KafkaWriter
	uploadTimeout time.Duration
}

func NewVideoService(reader VideoReader, writer VideoWriter, history HistoryWriter, media MediaStore, kafkaWriter KafkaWriter, uploadTimeout time.Duration) *VideoService {
	return &VideoService{
		reader:        reader,
		writer:        writer,
		history:       history,
		media:         media,
		kafkaWriter:   kafkaWriter,
		uploadTimeout: uploadTimeout,
	}
}

// Publish uploads both media assets and persists the video. If the
// persist fails after the uploads, the uploaded assets are deleted
// again, best-effort, without masking the original error.
func (svc *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput) (*models.VideoDB, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, apperrors.Validation("Title and description are required")
	}
	if in.VideoFile == nil || in.Thumbnail == nil {
		return nil, apperrors.Validation("Video file and thumbnail are required")
	}

	videoAsset, err := svc.upload(ctx, "videos", in.VideoFile)
	if err != nil {
		logger.Log.Errorw("video upload failed", "owner_id", ownerID, "err", err)
		return nil, apperrors.Internal(err)
	}

	thumbAsset, err := svc.upload(ctx, "thumbnails", in.Thumbnail)
	if err != nil {
		logger.Log.Errorw("thumbnail upload failed", "owner_id", ownerID, "err", err)
		svc.cleanup(ctx, videoAsset)
		return nil, apperrors.Internal(err)
	}

	video := models.VideoDB{
		VideoID:      uuid.New(),
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		VideoURL:     videoAsset.URL,
		VideoAssetID: videoAsset.PublicID,
		ThumbnailURL: thumbAsset.URL,
		ThumbAssetID: thumbAsset.PublicID,
		Duration:     in.Duration,
	}

	saved, err := svc.writer.Save(ctx, video)
	if err != nil {
		svc.cleanup(ctx, videoAsset, thumbAsset)
		logger.Log.Errorw("failed to save video", "owner_id", ownerID, "err", err)
		return nil, apperrors.Internal(err)
	}

	svc.publishEvent(ctx, ownerID, "video_published", saved.VideoID)
	return saved, nil
}

// Get returns a video by id. When a viewer is present the view counter
// is bumped and the video lands at the front of their watch history.
// Soft-deleted videos are indistinguishable from absent ones.
func (svc *VideoService) Get(ctx context.Context, videoID uuid.UUID, viewerID *uuid.UUID) (*models.VideoWithOwner, error) {
	video, err := svc.reader.GetByID(ctx, videoID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}

	if viewerID != nil {
		if err := svc.writer.IncrementViews(ctx, videoID); err != nil {
			logger.Log.Errorw("failed to increment views", "video_id", videoID, "err", err)
		}
		if err := svc.history.Upsert(ctx, *viewerID, videoID); err != nil {
			logger.Log.Errorw("failed to record watch history", "user_id", *viewerID, "video_id", videoID, "err", err)
		}
	}

	return video, nil
}

// Update patches title/description and optionally replaces the
// thumbnail. Only the owner may update.
func (svc *VideoService) Update(ctx context.Context, videoID, requesterID uuid.UUID, in UpdateVideoInput) (*models.VideoDB, error) {
	existing, err := svc.getOwned(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		in.Title = existing.Title
	}
	if in.Description == "" {
		in.Description = existing.Description
	}

	var thumbAsset *models.MediaAsset
	if in.Thumbnail != nil {
		thumbAsset, err = svc.upload(ctx, "thumbnails", in.Thumbnail)
		if err != nil {
			logger.Log.Errorw("thumbnail upload failed", "video_id", videoID, "err", err)
			return nil, apperrors.Internal(err)
		}
	}

	updated, err := svc.writer.Update(ctx, videoID, in.Title, in.Description, thumbAsset)
	if err != nil {
		svc.cleanup(ctx, thumbAsset)
		logger.Log.Errorw("failed to update video", "video_id", videoID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		svc.cleanup(ctx, thumbAsset)
		return nil, ErrVideoNotFound
	}

	// Replaced thumbnail is dead weight, drop it best-effort.
	if thumbAsset != nil && existing.ThumbAssetID != "" {
		if err := svc.media.Delete(ctx, existing.ThumbAssetID); err != nil {
			logger.Log.Errorw("failed to delete replaced thumbnail", "public_id", existing.ThumbAssetID, "err", err)
		}
	}

	return updated, nil
}

// Delete soft-deletes the video. Media assets stay at the host so the
// record remains restorable.
func (svc *VideoService) Delete(ctx context.Context, videoID, requesterID uuid.UUID) error {
	if _, err := svc.getOwned(ctx, videoID, requesterID); err != nil {
		return err
	}

	if err := svc.writer.SoftDelete(ctx, videoID); err != nil {
		logger.Log.Errorw("failed to soft delete video", "video_id", videoID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

// TogglePublish flips the publish flag.
func (svc *VideoService) TogglePublish(ctx context.Context, videoID, requesterID uuid.UUID) (*models.VideoDB, error) {
	existing, err := svc.getOwned(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	updated, err := svc.writer.SetPublished(ctx, videoID, !existing.IsPublished)
	if err != nil {
		logger.Log.Errorw("failed to toggle publish", "video_id", videoID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, ErrVideoNotFound
	}
	return updated, nil
}

// List returns a page of published videos matching the filter.
func (svc *VideoService) List(ctx context.Context, filter models.VideoListFilter) (*models.VideoPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	videos, total, err := svc.reader.List(ctx, filter)
	if err != nil {
		logger.Log.Errorw("failed to list videos", "err", err)
		return nil, apperrors.Internal(err)
	}

	totalPages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		totalPages++
	}

	return &models.VideoPage{
		Videos:     videos,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// getOwned loads the video and enforces the ownership gate.
func (svc *VideoService) getOwned(ctx context.Context, videoID, requesterID uuid.UUID) (*models.VideoWithOwner, error) {
	video, err := svc.reader.GetByID(ctx, videoID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	if video.OwnerID != requesterID {
		return nil, ErrNotVideoOwner
	}
	return video, nil
}

func (svc *VideoService) upload(ctx context.Context, folder string, f *FileUpload) (*models.MediaAsset, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, svc.uploadTimeout)
	defer cancel()
	return svc.media.Upload(uploadCtx, folder, f.Filename, f.Content, f.ContentType)
}

func (svc *VideoService) cleanup(ctx context.Context, assets ...*models.MediaAsset) {
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		if err := svc.media.Delete(ctx, asset.PublicID); err != nil {
			logger.Log.Errorw("compensating media cleanup failed", "public_id", asset.PublicID, "err", err)
		}
	}
}

func (svc *VideoService) publishEvent(ctx context.Context, userID uuid.UUID, action string, targetID uuid.UUID) {
	if svc.kafkaWriter == nil {
		return
	}

	event := models.EngagementEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		UserID:    userID.String(),
		Action:    action,
		TargetID:  targetID.String(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal engagement event", "action", action, "error", err)
		return
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, kafka.Message{Key: []byte(event.EventID), Value: data}); err != nil {
		logger.Log.Errorw("failed to publish engagement event", "action", action, "error", err)
	}
}
