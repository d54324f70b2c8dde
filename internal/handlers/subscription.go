package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

// SubscriptionToggler defines the interface for the subscription toggle.
type SubscriptionToggler interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID uuid.UUID) (*services.ToggleResult, error)
}

// NewToggleSubscriptionHandler returns an HTTP handler that subscribes
// the requester to a channel or removes the existing subscription.
// @Summary Toggle a channel subscription
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Param channelId path string true "Channel user ID"
// @Success 200 {object} handlers.Response "Toggle state"
// @Failure 400 {object} handlers.ErrorResponse "Self subscription"
// @Failure 404 {object} handlers.ErrorResponse "Channel not found"
// @Router /subscriptions/c/{channelId} [patch]
func NewToggleSubscriptionHandler(svc SubscriptionToggler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, err := pathUUID(r, "channelId")
		if err != nil {
			writeError(w, err)
			return
		}

		subscriberID := middlewares.UserIDFromContext(r.Context())
		result, err := svc.ToggleSubscription(r.Context(), subscriberID, channelID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, result, "Subscription toggled successfully")
	}
}

// SubscriptionLister lists both sides of the subscription relation.
type SubscriptionLister interface {
	Subscribers(ctx context.Context, channelID uuid.UUID) ([]models.UserProfile, error)
	SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.UserProfile, error)
}

// NewSubscribersHandler returns an HTTP handler listing a channel's
// subscribers.
// @Summary List channel subscribers
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Param channelId path string true "Channel user ID"
// @Success 200 {object} handlers.Response "Subscriber profiles"
// @Failure 404 {object} handlers.ErrorResponse "Channel not found"
// @Router /subscriptions/c/{channelId} [get]
func NewSubscribersHandler(svc SubscriptionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, err := pathUUID(r, "channelId")
		if err != nil {
			writeError(w, err)
			return
		}

		profiles, err := svc.Subscribers(r.Context(), channelID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, profiles, "Subscribers fetched successfully")
	}
}

// NewSubscribedChannelsHandler returns an HTTP handler listing the
// channels a user is subscribed to.
// @Summary List subscribed channels
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Param subscriberId path string true "Subscriber user ID"
// @Success 200 {object} handlers.Response "Channel profiles"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /subscriptions/u/{subscriberId} [get]
func NewSubscribedChannelsHandler(svc SubscriptionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscriberID, err := pathUUID(r, "subscriberId")
		if err != nil {
			writeError(w, err)
			return
		}

		profiles, err := svc.SubscribedChannels(r.Context(), subscriberID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, profiles, "Subscribed channels fetched successfully")
	}
}
