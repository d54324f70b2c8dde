package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

func TestCreateTweetHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTweeter(ctrl)
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc.EXPECT().
			Create(gomock.Any(), userID, "hello").
			Return(&models.TweetDB{TweetID: uuid.New(), OwnerID: userID, Content: "hello"}, nil)

		body := bytes.NewBufferString(`{"content":"hello"}`)
		req := authedRequest(http.MethodPost, "/api/v1/tweets", body, userID)
		rr := httptest.NewRecorder()

		NewCreateTweetHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		body := bytes.NewBufferString("{oops")
		req := authedRequest(http.MethodPost, "/api/v1/tweets", body, userID)
		rr := httptest.NewRecorder()

		NewCreateTweetHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListUserTweetsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTweeter(ctrl)
	userID := uuid.New()

	mockSvc.EXPECT().
		ListByUser(gomock.Any(), userID).
		Return([]models.TweetDB{{TweetID: uuid.New(), OwnerID: userID}}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/tweets/user/"+userID.String(), nil, uuid.New())
	req = withChiParam(req, "userId", userID.String())
	rr := httptest.NewRecorder()

	NewListUserTweetsHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateTweetHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTweeter(ctrl)
	tweetID := uuid.New()
	userID := uuid.New()

	t.Run("owner edits", func(t *testing.T) {
		mockSvc.EXPECT().
			Update(gomock.Any(), tweetID, userID, "edited").
			Return(&models.TweetDB{TweetID: tweetID, Content: "edited"}, nil)

		body := bytes.NewBufferString(`{"content":"edited"}`)
		req := authedRequest(http.MethodPatch, "/api/v1/tweets/"+tweetID.String(), body, userID)
		req = withChiParam(req, "tweetId", tweetID.String())
		rr := httptest.NewRecorder()

		NewUpdateTweetHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		mockSvc.EXPECT().
			Update(gomock.Any(), tweetID, userID, "edited").
			Return(nil, services.ErrNotTweetOwner)

		body := bytes.NewBufferString(`{"content":"edited"}`)
		req := authedRequest(http.MethodPatch, "/api/v1/tweets/"+tweetID.String(), body, userID)
		req = withChiParam(req, "tweetId", tweetID.String())
		rr := httptest.NewRecorder()

		NewUpdateTweetHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeleteTweetHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockTweeter(ctrl)
	tweetID := uuid.New()
	userID := uuid.New()

	mockSvc.EXPECT().Delete(gomock.Any(), tweetID, userID).Return(nil)

	req := authedRequest(http.MethodDelete, "/api/v1/tweets/"+tweetID.String(), nil, userID)
	req = withChiParam(req, "tweetId", tweetID.String())
	rr := httptest.NewRecorder()

	NewDeleteTweetHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
