package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentDB represents a comment record in the database.
type CommentDB struct {
	CommentID uuid.UUID `json:"id" db:"comment_id"`
	VideoID   uuid.UUID `json:"videoId" db:"video_id"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CommentWithOwner joins a comment with the reduced owner projection.
type CommentWithOwner struct {
	CommentDB
	Owner UserProfile `json:"owner"`
}

// CommentPage is a single page of comments for a video.
type CommentPage struct {
	Comments   []CommentWithOwner `json:"comments"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int64              `json:"totalPages"`
}
