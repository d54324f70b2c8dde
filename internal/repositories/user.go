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

// ErrDuplicateUser is returned when an insert or update trips the
// username/email uniqueness constraints.
var ErrDuplicateUser = errors.New("username or email already exists")

const userColumns = `
	user_id, username, email, full_name, password_hash, refresh_token,
	avatar_url, avatar_public_id, cover_image_url, cover_image_public_id,
	created_at, updated_at
`

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return r.get(ctx, query, userID)
}

// Exists reports whether a user with the given id exists. Used by the
// auth gate on every protected request.
func (r *UserReadRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID)

	logger.Log.Infow("user exists",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"exists", exists,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return exists, nil
}

// GetByUsername returns the user with the given username, or nil when absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.get(ctx, query, strings.ToLower(username))
}

// GetByUsernameOrEmail returns a user matching either identifier, or nil
// when none matches. Used both for login and for duplicate checks.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 LIMIT 1`
	return r.get(ctx, query, strings.ToLower(username), strings.ToLower(email))
}

func (r *UserReadRepository) get(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Infow("user read",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user and returns the stored row. A duplicate
// username or email surfaces as ErrDuplicateUser.
func (r *UserWriteRepository) Save(ctx context.Context, user models.UserDB) (*models.UserDB, error) {
	query := `
		INSERT INTO users (
			user_id, username, email, full_name, password_hash,
			avatar_url, avatar_public_id, cover_image_url, cover_image_public_id,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + userColumns
	args := []any{
		user.UserID, strings.ToLower(user.Username), strings.ToLower(user.Email),
		user.FullName, user.PasswordHash,
		user.AvatarURL, user.AvatarID, user.CoverImageURL, user.CoverImageID,
	}

	var saved models.UserDB
	err := r.db.GetContext(ctx, &saved, query, args...)

	logger.Log.Infow("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"username", user.Username,
		"error", err,
	)

	if IsUniqueViolation(err) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateRefreshToken overwrites the stored refresh token. A nil token
// clears it (logout). Field validation is deliberately skipped here:
// this is a credential bookkeeping write, not an account update.
func (r *UserWriteRepository) UpdateRefreshToken(ctx context.Context, userID uuid.UUID, token *string) error {
	query := `UPDATE users SET refresh_token = $2 WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, token)

	logger.Log.Infow("user refresh token update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, passwordHash)

	logger.Log.Infow("user password update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)
	return err
}

// UpdateAccount patches full name and email and returns the updated row.
func (r *UserWriteRepository) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.UserDB, error) {
	query := `
		UPDATE users SET full_name = $2, email = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns
	args := []any{userID, fullName, strings.ToLower(email)}

	var updated models.UserDB
	err := r.db.GetContext(ctx, &updated, query, args...)

	logger.Log.Infow("user account update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	if IsUniqueViolation(err) {
		return nil, ErrDuplicateUser
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateAvatar replaces the avatar asset reference.
func (r *UserWriteRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, asset models.MediaAsset) error {
	query := `
		UPDATE users SET avatar_url = $2, avatar_public_id = $3, updated_at = NOW()
		WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, asset.URL, asset.PublicID)

	logger.Log.Infow("user avatar update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)
	return err
}

// UpdateCoverImage replaces the cover image asset reference.
func (r *UserWriteRepository) UpdateCoverImage(ctx context.Context, userID uuid.UUID, asset models.MediaAsset) error {
	query := `
		UPDATE users SET cover_image_url = $2, cover_image_public_id = $3, updated_at = NOW()
		WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID, asset.URL, asset.PublicID)

	logger.Log.Infow("user cover image update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)
	return err
}
