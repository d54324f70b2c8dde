package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionDB represents a subscriber→channel relation. The
// (subscriber_id, channel_id) pair is unique at the storage layer.
type SubscriptionDB struct {
	SubscriptionID uuid.UUID `json:"id" db:"subscription_id"`
	SubscriberID   uuid.UUID `json:"subscriberId" db:"subscriber_id"`
	ChannelID      uuid.UUID `json:"channelId" db:"channel_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// ToggleState reports the outcome of a relation toggle.
type ToggleState string

const (
	ToggleAdded   ToggleState = "added"
	ToggleRemoved ToggleState = "removed"
)
