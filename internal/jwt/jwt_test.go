package jwt_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/jwt"
)

func newJWT() *jwt.JWT {
	return jwt.New(
		jwt.WithAccessSecret("access-secret"),
		jwt.WithRefreshSecret("refresh-secret"),
		jwt.WithAccessExpiration(time.Minute),
		jwt.WithRefreshExpiration(time.Hour),
	)
}

func TestJWT_AccessRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := newJWT()
	userID := uuid.New()

	token, err := j.GenerateAccess(ctx, userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := j.ParseAccess(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWT_RefreshRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := newJWT()
	userID := uuid.New()

	token, err := j.GenerateRefresh(ctx, userID)
	assert.NoError(t, err)

	got, err := j.ParseRefresh(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWT_KindMismatch(t *testing.T) {
	ctx := context.Background()
	j := newJWT()
	userID := uuid.New()

	access, err := j.GenerateAccess(ctx, userID)
	assert.NoError(t, err)
	refresh, err := j.GenerateRefresh(ctx, userID)
	assert.NoError(t, err)

	_, err = j.ParseRefresh(ctx, access)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)

	_, err = j.ParseAccess(ctx, refresh)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestJWT_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	j := jwt.New(
		jwt.WithAccessSecret("access-secret"),
		jwt.WithAccessExpiration(-time.Minute),
	)

	token, err := j.GenerateAccess(ctx, uuid.New())
	assert.NoError(t, err)

	_, err = j.ParseAccess(ctx, token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestJWT_WrongSecret(t *testing.T) {
	ctx := context.Background()
	j := newJWT()

	token, err := j.GenerateAccess(ctx, uuid.New())
	assert.NoError(t, err)

	other := jwt.New(jwt.WithAccessSecret("other-secret"))
	_, err = other.ParseAccess(ctx, token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalid)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	ctx := context.Background()
	j := newJWT()

	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: jwt.AccessCookieName, Value: "from-cookie"})
		r.Header.Set("Authorization", "Bearer from-header")

		token, err := j.GetTokenFromRequest(ctx, r)
		assert.NoError(t, err)
		assert.Equal(t, "from-cookie", token)
	})

	t.Run("bearer header fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer from-header")

		token, err := j.GetTokenFromRequest(ctx, r)
		assert.NoError(t, err)
		assert.Equal(t, "from-header", token)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "from-header")

		_, err := j.GetTokenFromRequest(ctx, r)
		assert.ErrorIs(t, err, jwt.ErrTokenMissing)
	})

	t.Run("no token at all", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := j.GetTokenFromRequest(ctx, r)
		assert.ErrorIs(t, err, jwt.ErrTokenMissing)
	})
}

func TestGetRefreshFromRequest(t *testing.T) {
	t.Run("refresh cookie present", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: jwt.RefreshCookieName, Value: "refresh-me"})

		token, err := jwt.GetRefreshFromRequest(r)
		assert.NoError(t, err)
		assert.Equal(t, "refresh-me", token)
	})

	t.Run("cookie absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		_, err := jwt.GetRefreshFromRequest(r)
		assert.ErrorIs(t, err, jwt.ErrTokenMissing)
	})

	t.Run("empty cookie value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: jwt.RefreshCookieName, Value: ""})

		_, err := jwt.GetRefreshFromRequest(r)
		assert.ErrorIs(t, err, jwt.ErrTokenMissing)
	})
}
