package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoDB represents a video record in the database.
type VideoDB struct {
	VideoID       uuid.UUID `json:"id" db:"video_id"`                  // Primary key
	OwnerID       uuid.UUID `json:"ownerId" db:"owner_id"`             // Owning user
	Title         string    `json:"title" db:"title"`                  // Video title
	Description   string    `json:"description" db:"description"`      // Video description
	VideoURL      string    `json:"videoUrl" db:"video_url"`           // Media host URL of the video file
	VideoAssetID  string    `json:"-" db:"video_public_id"`            // Media host asset id of the video file
	ThumbnailURL  string    `json:"thumbnailUrl" db:"thumbnail_url"`   // Media host URL of the thumbnail
	ThumbAssetID  string    `json:"-" db:"thumbnail_public_id"`        // Media host asset id of the thumbnail
	Duration      float64   `json:"duration" db:"duration"`            // Duration in seconds
	Views         int64     `json:"views" db:"views"`                  // View counter
	IsPublished   bool      `json:"isPublished" db:"is_published"`     // Visible in public listings
	IsDeleted     bool      `json:"-" db:"is_deleted"`                 // Soft-delete marker
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// VideoWithOwner joins a video with the reduced owner projection.
type VideoWithOwner struct {
	VideoDB
	Owner UserProfile `json:"owner"`
}

// VideoListFilter describes the public listing query.
type VideoListFilter struct {
	Query    string     // case-insensitive substring over title/description
	OwnerID  *uuid.UUID // optional owner filter
	SortBy   string     // whitelisted column, defaults to created_at
	SortDesc bool
	Page     int
	Limit    int
}

// VideoPage is a single page of listing results.
type VideoPage struct {
	Videos     []VideoWithOwner `json:"videos"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"totalPages"`
}
