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
	ErrPlaylistNotFound = apperrors.NotFound("Playlist not found")
	ErrNotPlaylistOwner = apperrors.Forbidden("You do not own this playlist")
)

// PlaylistReader defines read operations for playlists.
type PlaylistReader interface {
	GetByID(ctx context.Context, playlistID uuid.UUID) (*models.PlaylistDB, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.PlaylistDB, error)
	ListVideos(ctx context.Context, playlistID uuid.UUID) ([]models.VideoWithOwner, error)
}

// PlaylistWriter defines write operations for playlists.
type PlaylistWriter interface {
	Save(ctx context.Context, playlist models.PlaylistDB) (*models.PlaylistDB, error)
	Update(ctx context.Context, playlistID uuid.UUID, name, description string) (*models.PlaylistDB, error)
	Delete(ctx context.Context, playlistID uuid.UUID) error
	AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
	RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error
}

// PlaylistService handles ordered collections of videos.
type PlaylistService struct {
	reader PlaylistReader
	writer PlaylistWriter
	videos VideoReader
}

func NewPlaylistService(reader PlaylistReader, writer PlaylistWriter, videos VideoReader) *PlaylistService {
	return &PlaylistService{reader: reader, writer: writer, videos: videos}
}

// Create makes a new empty playlist.
func (svc *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.PlaylistDB, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apperrors.Validation("Name and description are required")
	}

	saved, err := svc.writer.Save(ctx, models.PlaylistDB{
		PlaylistID:  uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		logger.Log.Errorw("failed to save playlist", "owner_id", ownerID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return saved, nil
}

// Get returns a playlist with its videos in order.
func (svc *PlaylistService) Get(ctx context.Context, playlistID uuid.UUID) (*models.PlaylistWithVideos, error) {
	playlist, err := svc.reader.GetByID(ctx, playlistID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if playlist == nil {
		return nil, ErrPlaylistNotFound
	}

	videos, err := svc.reader.ListVideos(ctx, playlistID)
	if err != nil {
		logger.Log.Errorw("failed to list playlist videos", "playlist_id", playlistID, "err", err)
		return nil, apperrors.Internal(err)
	}

	return &models.PlaylistWithVideos{PlaylistDB: *playlist, Videos: videos}, nil
}

// ListByUser returns all playlists of a user.
func (svc *PlaylistService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PlaylistDB, error) {
	playlists, err := svc.reader.ListByOwner(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list playlists", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	return playlists, nil
}

// Update patches name and description. Only the owner may update.
func (svc *PlaylistService) Update(ctx context.Context, playlistID, requesterID uuid.UUID, name, description string) (*models.PlaylistDB, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, apperrors.Validation("Name and description are required")
	}

	if err := svc.checkOwner(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}

	updated, err := svc.writer.Update(ctx, playlistID, name, description)
	if err != nil {
		logger.Log.Errorw("failed to update playlist", "playlist_id", playlistID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, ErrPlaylistNotFound
	}
	return updated, nil
}

// Delete removes the playlist. Only the owner may delete.
func (svc *PlaylistService) Delete(ctx context.Context, playlistID, requesterID uuid.UUID) error {
	if err := svc.checkOwner(ctx, playlistID, requesterID); err != nil {
		return err
	}

	if err := svc.writer.Delete(ctx, playlistID); err != nil {
		logger.Log.Errorw("failed to delete playlist", "playlist_id", playlistID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

// AddVideo appends a video to the playlist. Only the owner may modify.
// Adding a video twice is a no-op.
func (svc *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, requesterID uuid.UUID) error {
	if err := svc.checkOwner(ctx, playlistID, requesterID); err != nil {
		return err
	}

	video, err := svc.videos.GetByID(ctx, videoID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if video == nil {
		return ErrVideoNotFound
	}

	if err := svc.writer.AddVideo(ctx, playlistID, videoID); err != nil {
		logger.Log.Errorw("failed to add playlist video", "playlist_id", playlistID, "video_id", videoID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

// RemoveVideo drops a video from the playlist. Only the owner may modify.
func (svc *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID uuid.UUID) error {
	if err := svc.checkOwner(ctx, playlistID, requesterID); err != nil {
		return err
	}

	if err := svc.writer.RemoveVideo(ctx, playlistID, videoID); err != nil {
		logger.Log.Errorw("failed to remove playlist video", "playlist_id", playlistID, "video_id", videoID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

func (svc *PlaylistService) checkOwner(ctx context.Context, playlistID, requesterID uuid.UUID) error {
	playlist, err := svc.reader.GetByID(ctx, playlistID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if playlist == nil {
		return ErrPlaylistNotFound
	}
	if playlist.OwnerID != requesterID {
		return ErrNotPlaylistOwner
	}
	return nil
}
