package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

func TestCreatePlaylistHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPlaylister(ctrl)
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), userID, "Favorites", "Best clips").
			Return(&models.PlaylistDB{PlaylistID: uuid.New(), Name: "Favorites"}, nil)

		body := bytes.NewBufferString(`{"name":"Favorites","description":"Best clips"}`)
		req := authedRequest(http.MethodPost, "/api/v1/playlists", body, userID)
		rr := httptest.NewRecorder()

		NewCreatePlaylistHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), userID, "", "").
			Return(nil, apperrors.Validation("Name and description are required"))

		body := bytes.NewBufferString(`{}`)
		req := authedRequest(http.MethodPost, "/api/v1/playlists", body, userID)
		rr := httptest.NewRecorder()

		NewCreatePlaylistHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetPlaylistHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPlaylister(ctrl)
	playlistID := uuid.New()

	t.Run("returns playlist with videos", func(t *testing.T) {
		mockSvc.EXPECT().
			Get(gomock.Any(), playlistID).
			Return(&models.PlaylistWithVideos{
				PlaylistDB: models.PlaylistDB{PlaylistID: playlistID, Name: "Favorites"},
				Videos:     []models.VideoWithOwner{{VideoDB: models.VideoDB{VideoID: uuid.New()}}},
			}, nil)

		req := authedRequest(http.MethodGet, "/api/v1/playlists/"+playlistID.String(), nil, uuid.New())
		req = withChiParam(req, "playlistId", playlistID.String())
		rr := httptest.NewRecorder()

		NewGetPlaylistHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.EXPECT().
			Get(gomock.Any(), playlistID).
			Return(nil, services.ErrPlaylistNotFound)

		req := authedRequest(http.MethodGet, "/api/v1/playlists/"+playlistID.String(), nil, uuid.New())
		req = withChiParam(req, "playlistId", playlistID.String())
		rr := httptest.NewRecorder()

		NewGetPlaylistHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAddPlaylistVideoHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPlaylister(ctrl)
	playlistID := uuid.New()
	videoID := uuid.New()
	userID := uuid.New()

	t.Run("owner adds a video", func(t *testing.T) {
		mockSvc.EXPECT().
			AddVideo(gomock.Any(), playlistID, videoID, userID).
			Return(nil)

		req := authedRequest(http.MethodPatch, "/api/v1/playlists/add/"+videoID.String()+"/"+playlistID.String(), nil, userID)
		req = withChiParam(req, "playlistId", playlistID.String())
		req = withChiParam(req, "videoId", videoID.String())
		rr := httptest.NewRecorder()

		NewAddPlaylistVideoHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		mockSvc.EXPECT().
			AddVideo(gomock.Any(), playlistID, videoID, userID).
			Return(services.ErrNotPlaylistOwner)

		req := authedRequest(http.MethodPatch, "/api/v1/playlists/add/"+videoID.String()+"/"+playlistID.String(), nil, userID)
		req = withChiParam(req, "playlistId", playlistID.String())
		req = withChiParam(req, "videoId", videoID.String())
		rr := httptest.NewRecorder()

		NewAddPlaylistVideoHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestRemovePlaylistVideoHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPlaylister(ctrl)
	playlistID := uuid.New()
	videoID := uuid.New()
	userID := uuid.New()

	mockSvc.EXPECT().
		RemoveVideo(gomock.Any(), playlistID, videoID, userID).
		Return(nil)

	req := authedRequest(http.MethodPatch, "/api/v1/playlists/remove/"+videoID.String()+"/"+playlistID.String(), nil, userID)
	req = withChiParam(req, "playlistId", playlistID.String())
	req = withChiParam(req, "videoId", videoID.String())
	rr := httptest.NewRecorder()

	NewRemovePlaylistVideoHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
