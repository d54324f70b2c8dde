package models

// EngagementEvent is the message published to Kafka when a user
// interacts with content (publish, like, subscribe). Best-effort only:
// a failed publish never fails the request that produced it.
type EngagementEvent struct {
	EventID   string `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`    // video_published, like_added, like_removed, subscribed, unsubscribed
	TargetID  string `json:"target_id"` // id of the video/comment/tweet/channel acted on
}
