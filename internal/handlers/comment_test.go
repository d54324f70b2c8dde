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

func TestAddCommentHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockCommenter(ctrl)
	videoID := uuid.New()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc.EXPECT().
			Add(gomock.Any(), videoID, userID, "nice video").
			Return(&models.CommentDB{CommentID: uuid.New(), Content: "nice video"}, nil)

		body := bytes.NewBufferString(`{"content":"nice video"}`)
		req := authedRequest(http.MethodPost, "/api/v1/comments/"+videoID.String(), body, userID)
		req = withChiParam(req, "videoId", videoID.String())
		rr := httptest.NewRecorder()

		NewAddCommentHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("video not found", func(t *testing.T) {
		mockSvc.EXPECT().
			Add(gomock.Any(), videoID, userID, "hi").
			Return(nil, services.ErrVideoNotFound)

		body := bytes.NewBufferString(`{"content":"hi"}`)
		req := authedRequest(http.MethodPost, "/api/v1/comments/"+videoID.String(), body, userID)
		req = withChiParam(req, "videoId", videoID.String())
		rr := httptest.NewRecorder()

		NewAddCommentHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		body := bytes.NewBufferString("{broken")
		req := authedRequest(http.MethodPost, "/api/v1/comments/"+videoID.String(), body, userID)
		req = withChiParam(req, "videoId", videoID.String())
		rr := httptest.NewRecorder()

		NewAddCommentHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListCommentsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockCommenter(ctrl)
	videoID := uuid.New()

	mockSvc.EXPECT().
		ListByVideo(gomock.Any(), videoID, 3, 20).
		Return(&models.CommentPage{Page: 3, Limit: 20}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comments/"+videoID.String()+"?page=3&limit=20", nil)
	req = withChiParam(req, "videoId", videoID.String())
	rr := httptest.NewRecorder()

	NewListCommentsHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateCommentHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockCommenter(ctrl)
	commentID := uuid.New()
	userID := uuid.New()

	t.Run("owner edits", func(t *testing.T) {
		mockSvc.EXPECT().
			Update(gomock.Any(), commentID, userID, "edited").
			Return(&models.CommentDB{CommentID: commentID, Content: "edited"}, nil)

		body := bytes.NewBufferString(`{"content":"edited"}`)
		req := authedRequest(http.MethodPatch, "/api/v1/comments/c/"+commentID.String(), body, userID)
		req = withChiParam(req, "commentId", commentID.String())
		rr := httptest.NewRecorder()

		NewUpdateCommentHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not the owner", func(t *testing.T) {
		mockSvc.EXPECT().
			Update(gomock.Any(), commentID, userID, "edited").
			Return(nil, services.ErrNotCommentOwner)

		body := bytes.NewBufferString(`{"content":"edited"}`)
		req := authedRequest(http.MethodPatch, "/api/v1/comments/c/"+commentID.String(), body, userID)
		req = withChiParam(req, "commentId", commentID.String())
		rr := httptest.NewRecorder()

		NewUpdateCommentHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeleteCommentHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockCommenter(ctrl)
	commentID := uuid.New()
	userID := uuid.New()

	mockSvc.EXPECT().Delete(gomock.Any(), commentID, userID).Return(nil)

	req := authedRequest(http.MethodDelete, "/api/v1/comments/c/"+commentID.String(), nil, userID)
	req = withChiParam(req, "commentId", commentID.String())
	rr := httptest.NewRecorder()

	NewDeleteCommentHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
