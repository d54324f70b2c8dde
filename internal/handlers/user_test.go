package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)

	user := &models.UserDB{UserID: uuid.New(), Username: "john"}
	pair := &services.TokenPair{AccessToken: "ACCESS", RefreshToken: "REFRESH"}

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
	}{
		{
			name:      "success with username",
			inputBody: LoginRequest{Username: "john", Password: "pass123"},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "pass123").
					Return(user, pair, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:      "email used when username empty",
			inputBody: LoginRequest{Email: "john@example.com", Password: "pass123"},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john@example.com", "pass123").
					Return(user, pair, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:      "wrong credentials",
			inputBody: LoginRequest{Username: "john", Password: "nope"},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "nope").
					Return(nil, nil, services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			var body bytes.Buffer
			switch v := tt.inputBody.(type) {
			case string:
				body.WriteString(v)
			default:
				assert.NoError(t, json.NewEncoder(&body).Encode(v))
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/user/login", &body)
			rr := httptest.NewRecorder()

			NewLoginHandler(mockSvc, false)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedCode == http.StatusOK {
				var resp Response
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.True(t, resp.Success)

				data := resp.Data.(map[string]interface{})
				assert.Equal(t, "ACCESS", data["accessToken"])
				assert.Equal(t, "REFRESH", data["refreshToken"])

				cookies := rr.Result().Cookies()
				names := map[string]string{}
				for _, c := range cookies {
					names[c.Name] = c.Value
					assert.True(t, c.HttpOnly)
				}
				assert.Equal(t, "ACCESS", names[jwt.AccessCookieName])
				assert.Equal(t, "REFRESH", names[jwt.RefreshCookieName])
			} else {
				var resp ErrorResponse
				assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.False(t, resp.Success)
				assert.NotEmpty(t, resp.Message)
			}
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRefresher(ctrl)
	pair := &services.TokenPair{AccessToken: "NEW_ACCESS", RefreshToken: "NEW_REFRESH"}

	t.Run("token from cookie", func(t *testing.T) {
		mockSvc.EXPECT().Refresh(gomock.Any(), "OLD_REFRESH").Return(pair, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/user/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: jwt.RefreshCookieName, Value: "OLD_REFRESH"})
		rr := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, false)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("token from body when no cookie", func(t *testing.T) {
		mockSvc.EXPECT().Refresh(gomock.Any(), "BODY_REFRESH").Return(pair, nil)

		body := bytes.NewBufferString(`{"refreshToken":"BODY_REFRESH"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/user/refresh-token", body)
		rr := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, false)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("stale token", func(t *testing.T) {
		mockSvc.EXPECT().Refresh(gomock.Any(), "STALE").Return(nil, services.ErrInvalidRefresh)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/user/refresh-token", nil)
		req.AddCookie(&http.Cookie{Name: jwt.RefreshCookieName, Value: "STALE"})
		rr := httptest.NewRecorder()

		NewRefreshHandler(mockSvc, false)(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	userID := uuid.New()

	mockSvc.EXPECT().Logout(gomock.Any(), userID).Return(nil)

	req := authedRequest(http.MethodPost, "/api/v1/user/logout", nil, userID)
	rr := httptest.NewRecorder()

	NewLogoutHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	for _, c := range rr.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestChangePasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPasswordChanger(ctrl)
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc.EXPECT().ChangePassword(gomock.Any(), userID, "old", "new").Return(nil)

		body := bytes.NewBufferString(`{"oldPassword":"old","newPassword":"new"}`)
		req := authedRequest(http.MethodPatch, "/api/v1/user/change-password", body, userID)
		rr := httptest.NewRecorder()

		NewChangePasswordHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		body := bytes.NewBufferString("{not json")
		req := authedRequest(http.MethodPatch, "/api/v1/user/change-password", body, userID)
		rr := httptest.NewRecorder()

		NewChangePasswordHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
