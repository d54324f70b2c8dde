package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/repositories"
)

// Stable client-facing failures for the auth flows.
var (
	ErrUserAlreadyExists  = apperrors.Conflict("User with email or username already exists")
	ErrInvalidCredentials = apperrors.Unauthorized("Invalid username or password")
	ErrInvalidRefresh     = apperrors.Unauthorized("Invalid or expired refresh token")
	ErrUserNotFound       = apperrors.NotFound("User not found")
)

// FileUpload carries one uploaded file from the HTTP layer into a
// service. Content is consumed exactly once.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// TokenPair is an access/refresh token pair issued together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user models.UserDB) (*models.UserDB, error)
	UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.UserDB, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, asset models.MediaAsset) error
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, asset models.MediaAsset) error
}

// TokenIssuer defines the token pair operations the auth service needs.
type TokenIssuer interface {
	GenerateAccess(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateRefresh(ctx context.Context, userID uuid.UUID) (string, error)
	ParseRefresh(ctx context.Context, tokenString string) (uuid.UUID, error)
}

// MediaStore is the external media host collaborator.
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader, contentType string) (*models.MediaAsset, error)
	Delete(ctx context.Context, publicID string) error
}

// AuthService handles registration, login and the refresh token
// lifecycle. One refresh token is active per user at any time.
type AuthService struct {
	reader        UserReader
	writer        UserWriter
	tokens        TokenIssuer
	media         MediaStore
	uploadTimeout time.Duration
}

// RegisterInput is the validated payload for user registration.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *FileUpload
	CoverImage *FileUpload
}

func NewAuthService(reader UserReader, writer UserWriter, tokens TokenIssuer, media MediaStore, uploadTimeout time.Duration) *AuthService {
	return &AuthService{
		reader:        reader,
		writer:        writer,
		tokens:        tokens,
		media:         media,
		uploadTimeout: uploadTimeout,
	}
}

// Register creates a new user account. The avatar is required and both
// media assets go to the external host before the row is written; if the
// write then fails the uploads are deleted again, best-effort.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput) (*models.UserDB, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return nil, apperrors.Validation("All fields are required")
	}
	if in.Avatar == nil {
		return nil, apperrors.Validation("Avatar file is missing")
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	avatar, err := svc.upload(ctx, "avatars", in.Avatar)
	if err != nil {
		logger.Log.Errorw("avatar upload failed", "username", in.Username, "err", err)
		return nil, apperrors.Internal(err)
	}

	var cover *models.MediaAsset
	if in.CoverImage != nil {
		cover, err = svc.upload(ctx, "covers", in.CoverImage)
		if err != nil {
			logger.Log.Errorw("cover image upload failed", "username", in.Username, "err", err)
			svc.cleanup(ctx, avatar)
			return nil, apperrors.Internal(err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		svc.cleanup(ctx, avatar, cover)
		return nil, apperrors.Internal(err)
	}

	user := models.UserDB{
		UserID:       uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hashed),
		AvatarURL:    avatar.URL,
		AvatarID:     avatar.PublicID,
	}
	if cover != nil {
		user.CoverImageURL = &cover.URL
		user.CoverImageID = &cover.PublicID
	}

	saved, err := svc.writer.Save(ctx, user)
	if err != nil {
		// Persist failed after upload: compensating cleanup, without
		// masking the original failure.
		svc.cleanup(ctx, avatar, cover)
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "username", in.Username, "err", err)
		return nil, apperrors.Internal(err)
	}

	return saved, nil
}

// Login authenticates by username or email and issues a token pair.
func (svc *AuthService) Login(ctx context.Context, identifier, password string) (*models.UserDB, *TokenPair, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return nil, nil, apperrors.Validation("Username and password are required")
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, identifier, identifier)
	if err != nil {
		logger.Log.Errorw("failed to get user", "identifier", identifier, "err", err)
		return nil, nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := svc.IssuePair(ctx, user.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// IssuePair generates an access/refresh pair and overwrites the stored
// refresh token for the user.
func (svc *AuthService) IssuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := svc.tokens.GenerateAccess(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	refresh, err := svc.tokens.GenerateRefresh(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}

	if err := svc.writer.UpdateRefreshToken(ctx, userID, &refresh); err != nil {
		logger.Log.Errorw("failed to persist refresh token", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates the token pair. The incoming token must verify and
// must exactly match the token currently stored on the user; presenting
// an already-rotated token is rejected.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}

	userID, err := svc.tokens.ParseRefresh(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load user for refresh", "user_id", userID, "err", err)
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, ErrInvalidRefresh
	}
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return nil, ErrInvalidRefresh
	}

	return svc.IssuePair(ctx, userID)
}

// Logout clears the stored refresh token. Idempotent.
func (svc *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := svc.writer.UpdateRefreshToken(ctx, userID, nil); err != nil {
		logger.Log.Errorw("failed to clear refresh token", "user_id", userID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

// ChangePassword verifies the old password and installs the new one.
func (svc *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.Validation("New password is required")
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.Unauthorized("Old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := svc.writer.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", userID, "err", err)
		return apperrors.Internal(err)
	}
	return nil
}

// upload pushes one file to the media host under a bounded timeout.
func (svc *AuthService) upload(ctx context.Context, folder string, f *FileUpload) (*models.MediaAsset, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, svc.uploadTimeout)
	defer cancel()
	return svc.media.Upload(uploadCtx, folder, f.Filename, f.Content, f.ContentType)
}

// cleanup deletes uploaded assets after a failed persist. Failures are
// logged and swallowed so they never mask the original error.
func (svc *AuthService) cleanup(ctx context.Context, assets ...*models.MediaAsset) {
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		if err := svc.media.Delete(ctx, asset.PublicID); err != nil {
			logger.Log.Errorw("compensating media cleanup failed", "public_id", asset.PublicID, "err", err)
		}
	}
}
