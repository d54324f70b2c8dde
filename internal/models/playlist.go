package models

import (
	"time"

	"github.com/google/uuid"
)

// PlaylistDB represents a playlist record in the database.
type PlaylistDB struct {
	PlaylistID  uuid.UUID `json:"id" db:"playlist_id"`
	OwnerID     uuid.UUID `json:"ownerId" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// PlaylistWithVideos joins a playlist with its ordered videos.
type PlaylistWithVideos struct {
	PlaylistDB
	Videos []VideoWithOwner `json:"videos"`
}
