package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database.
type UserDB struct {
	UserID        uuid.UUID  `json:"id" db:"user_id"`                      // Primary key
	Username      string     `json:"username" db:"username"`               // Unique username, lowercase
	Email         string     `json:"email" db:"email"`                     // Unique email, lowercase
	FullName      string     `json:"fullName" db:"full_name"`              // Display name
	PasswordHash  string     `json:"-" db:"password_hash"`                 // bcrypt hash, never serialized
	RefreshToken  *string    `json:"-" db:"refresh_token"`                 // Currently active refresh token
	AvatarURL     string     `json:"avatarUrl" db:"avatar_url"`            // Avatar asset URL
	AvatarID      string     `json:"-" db:"avatar_public_id"`              // Avatar asset id at the media host
	CoverImageURL *string    `json:"coverImageUrl" db:"cover_image_url"`   // Optional cover image URL
	CoverImageID  *string    `json:"-" db:"cover_image_public_id"`         // Optional cover asset id
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`            // Creation timestamp
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`            // Last update timestamp
}

// UserProfile is the reduced owner projection embedded in videos,
// comments and watch-history entries.
type UserProfile struct {
	UserID    uuid.UUID `json:"id" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	FullName  string    `json:"fullName" db:"full_name"`
	AvatarURL string    `json:"avatarUrl" db:"avatar_url"`
}

// ChannelProfile is the aggregated channel view resolved by username.
type ChannelProfile struct {
	UserProfile
	CoverImageURL     *string `json:"coverImageUrl" db:"cover_image_url"`
	SubscribersCount  int64   `json:"subscribersCount"`
	SubscribedToCount int64   `json:"subscribedToCount"`
	IsSubscribed      bool    `json:"isSubscribed"`
}

// Profile returns the reduced projection of the user.
func (u *UserDB) Profile() UserProfile {
	return UserProfile{
		UserID:    u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}
