package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

func TestChannelProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockChannelViewer(ctrl)
	requesterID := uuid.New()

	t.Run("returns the profile", func(t *testing.T) {
		mockSvc.EXPECT().
			Profile(gomock.Any(), "alice", requesterID).
			Return(&models.ChannelProfile{
				UserProfile:      models.UserProfile{Username: "alice"},
				SubscribersCount: 12,
				IsSubscribed:     true,
			}, nil)

		req := authedRequest(http.MethodGet, "/api/v1/channels/alice", nil, requesterID)
		req = withChiParam(req, "username", "alice")
		rr := httptest.NewRecorder()

		NewChannelProfileHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp Response
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.True(t, resp.Success)
	})

	t.Run("unknown channel", func(t *testing.T) {
		mockSvc.EXPECT().
			Profile(gomock.Any(), "ghost", requesterID).
			Return(nil, services.ErrChannelNotFound)

		req := authedRequest(http.MethodGet, "/api/v1/channels/ghost", nil, requesterID)
		req = withChiParam(req, "username", "ghost")
		rr := httptest.NewRecorder()

		NewChannelProfileHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestWatchHistoryHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockChannelViewer(ctrl)
	userID := uuid.New()

	mockSvc.EXPECT().
		WatchHistory(gomock.Any(), userID).
		Return([]models.VideoWithOwner{{VideoDB: models.VideoDB{VideoID: uuid.New()}}}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/channels/history", nil, userID)
	rr := httptest.NewRecorder()

	NewWatchHistoryHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
