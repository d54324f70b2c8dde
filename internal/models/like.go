package models

import (
	"time"

	"github.com/google/uuid"
)

// LikeTargetKind names the single entity a like points at.
type LikeTargetKind string

const (
	LikeTargetVideo   LikeTargetKind = "video"
	LikeTargetComment LikeTargetKind = "comment"
	LikeTargetTweet   LikeTargetKind = "tweet"
)

// LikeTarget references exactly one likeable entity.
type LikeTarget struct {
	Kind LikeTargetKind
	ID   uuid.UUID
}

// LikeDB represents a like record in the database. Exactly one of
// VideoID, CommentID, TweetID is set, enforced by a table constraint.
type LikeDB struct {
	LikeID    uuid.UUID  `json:"id" db:"like_id"`
	LikedBy   uuid.UUID  `json:"likedBy" db:"liked_by"`
	VideoID   *uuid.UUID `json:"videoId,omitempty" db:"video_id"`
	CommentID *uuid.UUID `json:"commentId,omitempty" db:"comment_id"`
	TweetID   *uuid.UUID `json:"tweetId,omitempty" db:"tweet_id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}
