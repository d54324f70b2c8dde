package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.UserDB, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a user account with a required avatar and optional cover image, both stored at the external media host.
// @Tags user
// @Accept mpfd
// @Produce json
// @Success 201 {object} handlers.Response "User registered"
// @Failure 400 {object} handlers.ErrorResponse "Missing fields or avatar"
// @Failure 409 {object} handlers.ErrorResponse "Username or email already exists"
// @Router /user/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, apperrors.Validation("Multipart form is required"))
			return
		}

		avatar, closeAvatar, err := fileFromForm(r, "avatar")
		if err != nil {
			writeError(w, apperrors.Validation("Avatar file is invalid"))
			return
		}
		defer closeAvatar()

		cover, closeCover, err := fileFromForm(r, "coverImage")
		if err != nil {
			writeError(w, apperrors.Validation("Cover image file is invalid"))
			return
		}
		defer closeCover()

		user, err := svc.Register(r.Context(), services.RegisterInput{
			Username:   r.FormValue("username"),
			Email:      r.FormValue("email"),
			FullName:   r.FormValue("fullName"),
			Password:   r.FormValue("password"),
			Avatar:     avatar,
			CoverImage: cover,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeData(w, http.StatusCreated, user, "User registered successfully")
	}
}

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, identifier, password string) (*models.UserDB, *services.TokenPair, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewLoginHandler returns an HTTP handler for user login. On success
// the token pair is returned in the body and set as HTTP-only cookies.
// @Summary User login
// @Description Authenticate by username or email and issue an access/refresh token pair
// @Tags user
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login request"
// @Success 200 {object} handlers.Response "Tokens issued"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Router /user/login [post]
func NewLoginHandler(svc Loginer, secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		identifier := req.Username
		if identifier == "" {
			identifier = req.Email
		}

		user, pair, err := svc.Login(r.Context(), identifier, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		setAuthCookies(w, pair, secureCookies)
		writeData(w, http.StatusOK, map[string]any{
			"user":         user,
			"accessToken":  pair.AccessToken,
			"refreshToken": pair.RefreshToken,
		}, "User logged in successfully")
	}
}

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, userID uuid.UUID) error
}

// NewLogoutHandler returns an HTTP handler that revokes the stored
// refresh token and clears the auth cookies.
// @Summary User logout
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Logged out"
// @Router /user/logout [post]
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middlewares.UserIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), userID); err != nil {
			writeError(w, err)
			return
		}

		clearAuthCookies(w)
		writeData(w, http.StatusOK, nil, "User logged out successfully")
	}
}

// Refresher defines the interface that the token rotation service must
// implement.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// RefreshRequest is the fallback body when no refresh cookie is set
// swagger:model RefreshRequest
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// NewRefreshHandler returns an HTTP handler that rotates the token
// pair. The refresh token is read from the cookie, falling back to the
// request body.
// @Summary Rotate the token pair
// @Tags user
// @Accept json
// @Produce json
// @Param refreshRequest body handlers.RefreshRequest false "Refresh token when no cookie is set"
// @Success 200 {object} handlers.Response "New token pair"
// @Failure 401 {object} handlers.ErrorResponse "Invalid, expired or already-rotated token"
// @Router /user/refresh-token [post]
func NewRefreshHandler(svc Refresher, secureCookies bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := jwt.GetRefreshFromRequest(r)
		if err != nil {
			var req RefreshRequest
			if decErr := json.NewDecoder(r.Body).Decode(&req); decErr == nil {
				token = req.RefreshToken
			}
		}

		pair, err := svc.Refresh(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		setAuthCookies(w, pair, secureCookies)
		writeData(w, http.StatusOK, pair, "Access token refreshed")
	}
}

// PasswordChanger defines the interface for password changes.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// NewChangePasswordHandler returns an HTTP handler for password changes.
// @Summary Change the current user's password
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Password changed"
// @Failure 401 {object} handlers.ErrorResponse "Old password incorrect"
// @Router /user/change-password [patch]
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		userID := middlewares.UserIDFromContext(r.Context())
		if err := svc.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}

		writeData(w, http.StatusOK, nil, "Password changed successfully")
	}
}

// AccountReader loads the current user.
type AccountReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// NewCurrentUserHandler returns an HTTP handler for the /user/me view.
// @Summary Get the current user
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Current user"
// @Router /user/me [get]
func NewCurrentUserHandler(svc AccountReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context(), middlewares.UserIDFromContext(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, user, "Current user fetched successfully")
	}
}

// AccountUpdater patches account fields.
type AccountUpdater interface {
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*models.UserDB, error)
}

// UpdateAccountRequest represents the JSON body for account updates
// swagger:model UpdateAccountRequest
type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// NewUpdateAccountHandler returns an HTTP handler for account updates.
// @Summary Update full name and email
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Updated user"
// @Failure 409 {object} handlers.ErrorResponse "Email already in use"
// @Router /user/account [patch]
func NewUpdateAccountHandler(svc AccountUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}

		userID := middlewares.UserIDFromContext(r.Context())
		user, err := svc.UpdateAccount(r.Context(), userID, req.FullName, req.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, user, "Account updated successfully")
	}
}

// AvatarUpdater replaces profile media assets.
type AvatarUpdater interface {
	UpdateAvatar(ctx context.Context, userID uuid.UUID, file *services.FileUpload) (*models.UserDB, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, file *services.FileUpload) (*models.UserDB, error)
}

// NewUpdateAvatarHandler returns an HTTP handler that replaces the avatar.
// @Summary Update the avatar
// @Tags user
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Updated user"
// @Router /user/avatar [patch]
func NewUpdateAvatarHandler(svc AvatarUpdater) http.HandlerFunc {
	return newAssetUpdateHandler("avatar", "Avatar updated successfully",
		func(ctx context.Context, userID uuid.UUID, f *services.FileUpload) (*models.UserDB, error) {
			return svc.UpdateAvatar(ctx, userID, f)
		})
}

// NewUpdateCoverImageHandler returns an HTTP handler that replaces the
// cover image.
// @Summary Update the cover image
// @Tags user
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.Response "Updated user"
// @Router /user/cover-image [patch]
func NewUpdateCoverImageHandler(svc AvatarUpdater) http.HandlerFunc {
	return newAssetUpdateHandler("coverImage", "Cover image updated successfully",
		func(ctx context.Context, userID uuid.UUID, f *services.FileUpload) (*models.UserDB, error) {
			return svc.UpdateCoverImage(ctx, userID, f)
		})
}

func newAssetUpdateHandler(field, message string, update func(context.Context, uuid.UUID, *services.FileUpload) (*models.UserDB, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, apperrors.Validation("Multipart form is required"))
			return
		}

		file, closeFile, err := fileFromForm(r, field)
		if err != nil || file == nil {
			writeError(w, apperrors.Validation("File is missing"))
			return
		}
		defer closeFile()

		userID := middlewares.UserIDFromContext(r.Context())
		user, err := update(r.Context(), userID, file)
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, user, message)
	}
}
