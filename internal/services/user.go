package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/repositories"
)

// UserService handles account reads and profile asset updates.
type UserService struct {
	reader        UserReader
	writer        UserWriter
	media         MediaStore
	uploadTimeout time.Duration
}

func NewUserService(reader UserReader, writer UserWriter, media MediaStore, uploadTimeout time.Duration) *UserService {
	return &UserService{
		reader:        reader,
		writer:        writer,
		media:         media,
		uploadTimeout: uploadTimeout,
	}
}

// Get returns the user by id.
func (svc *UserService) Get(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateAccount patches full name and email.
func (svc *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.UserDB, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if fullName == "" || email == "" {
		return nil, apperrors.Validation("Full name and email are required")
	}

	updated, err := svc.writer.UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to update account", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// UpdateAvatar replaces the avatar. The new asset is uploaded first,
// then the row updated, then the old asset deleted best-effort.
func (svc *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, file *FileUpload) (*models.UserDB, error) {
	return svc.updateAsset(ctx, userID, file, "avatars",
		func(u *models.UserDB) string { return u.AvatarID },
		svc.writer.UpdateAvatar,
	)
}

// UpdateCoverImage replaces the cover image, same asset dance as the
// avatar update.
func (svc *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, file *FileUpload) (*models.UserDB, error) {
	return svc.updateAsset(ctx, userID, file, "covers",
		func(u *models.UserDB) string {
			if u.CoverImageID == nil {
				return ""
			}
			return *u.CoverImageID
		},
		svc.writer.UpdateCoverImage,
	)
}

func (svc *UserService) updateAsset(
	ctx context.Context,
	userID uuid.UUID,
	file *FileUpload,
	folder string,
	oldID func(*models.UserDB) string,
	write func(context.Context, uuid.UUID, models.MediaAsset) error,
) (*models.UserDB, error) {
	if file == nil {
		return nil, apperrors.Validation("File is missing")
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	uploadCtx, cancel := context.WithTimeout(ctx, svc.uploadTimeout)
	defer cancel()
	asset, err := svc.media.Upload(uploadCtx, folder, file.Filename, file.Content, file.ContentType)
	if err != nil {
		logger.Log.Errorw("asset upload failed", "user_id", userID, "folder", folder, "err", err)
		return nil, apperrors.Internal(err)
	}

	if err := write(ctx, userID, *asset); err != nil {
		if delErr := svc.media.Delete(ctx, asset.PublicID); delErr != nil {
			logger.Log.Errorw("compensating media cleanup failed", "public_id", asset.PublicID, "err", delErr)
		}
		logger.Log.Errorw("failed to persist asset", "user_id", userID, "folder", folder, "err", err)
		return nil, apperrors.Internal(err)
	}

	// Old asset is dead weight now. Removal is best-effort.
	if old := oldID(user); old != "" {
		if err := svc.media.Delete(ctx, old); err != nil {
			logger.Log.Errorw("failed to delete replaced asset", "public_id", old, "err", err)
		}
	}

	return svc.Get(ctx, userID)
}
