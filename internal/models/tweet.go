package models

import (
	"time"

	"github.com/google/uuid"
)

// TweetDB represents a tweet record in the database.
type TweetDB struct {
	TweetID   uuid.UUID `json:"id" db:"tweet_id"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
